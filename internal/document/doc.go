// Package document 实现带缓存、可重置的文档：默认值 + 可选的磁盘覆盖。
//
// 生命周期：
//
//	Empty --(Value)--> Materialized（默认值深拷贝，按策略叠加文件内容）
//	Materialized --(ResetToDefault | SetValue)--> Materialized
//	Materialized --(会话退出标记 + 下一次 Value)--> Materialized（从默认值重新派生）
//
// 默认值永远不会被原地修改，缓存值与默认值从不共享存储（由 Clone 保证）。
// Document 不做任何加锁，调用方需要自行串行化访问。
package document
