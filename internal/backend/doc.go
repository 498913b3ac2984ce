// Package backend 枚举文件可以存放的存储后端（游戏根目录、只读资源包、持久化目录、
// 临时缓存、内嵌资源等），并提供后端描述注册表与宿主环境根目录查询。
//
// 后端集合是封闭的：内置的九种 Kind 在 init() 中注册描述信息，描述信息决定
// 该后端是否只读、由哪一类存储处理器负责读写。根目录不会被缓存，每次解析路径时
// 都通过 Environment 重新查询，因为根目录可能随运行平台变化。
package backend
