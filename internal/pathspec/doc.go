// Package pathspec 描述数据文件的逻辑身份：后端 + 子路径 + 文件名 + 扩展名，
// 并把它换算成物理路径。
//
// 三种路径来源都实现 Provider：
//   - PathSpec：平铺的五个字段；
//   - Chain：本地字段为空时逐字段回退到父级（父级可以继续回退）；
//   - PlatformTable：按声明顺序选出第一个包含当前平台的条目。
//
// 所有路径计算都是纯函数，不访问文件系统；根目录在每次计算时向
// backend.Environment 查询。
package pathspec
