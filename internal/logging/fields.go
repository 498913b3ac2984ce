package logging

import "github.com/sirupsen/logrus"

// BaseFields 构建 action + 配置路径等基础字段，便于不同入口复用。
func BaseFields(action, configPath string) logrus.Fields {
	return logrus.Fields{
		"action":     action,
		"configPath": configPath,
	}
}

// DocumentFields 提供文档名、后端与物理路径字段，供文档读写日志复用。
func DocumentFields(name, backend, path string) logrus.Fields {
	return logrus.Fields{
		"document": name,
		"backend":  backend,
		"path":     path,
	}
}

// RequestFields 提供管理接口请求字段。
func RequestFields(requestID, method, route string, status int) logrus.Fields {
	return logrus.Fields{
		"request_id": requestID,
		"method":     method,
		"route":      route,
		"status":     status,
	}
}
