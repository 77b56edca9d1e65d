// Package consumer 把查询结果的行转换成强类型的记录
//
// 行中第 i 列绑定到记录的第 i 个字段(按声明顺序), 不按列名匹配。
// 某个字段转换失败时使用该类型的默认值代替, 并记录一条诊断信息, 转换不会中断。
//
// 三层调用:
//   - FromRow: 转换一行, 返回记录和 *RowError
//   - FromRows: 转换多行, 部分失败时返回全部数据和 ErrDegraded
//   - Consume: 执行查询并转换, 任何失败都只返回 ConsumeError, 不返回数据
//
// 记录类型可以由 consumergen 生成 ConsumeRow 方法, 也可以用 Schema 描述,
// 或者直接交给 Registry 反射解析。
package consumer
