package engine

import "time"

const clockLayout = "15:04:05"

// parseClock 解析门店本地时间（数据库中以 time 列存储，不做时区换算）
// 入库前已由 handler 校验过格式，这里解析失败按零值处理
func parseClock(s string) time.Time {
	t, _ := time.Parse(clockLayout, s)
	return t
}

// TimesOverlap 判断同一天内的两个时间段是否重叠
// 采用闭边界策略：一个班次 14:00 结束、另一个 14:00 开始也算重叠，
// 即 s1 ≤ e2 且 s2 ≤ e1（这是刻意的排班间隔约定，不是 bug）
func TimesOverlap(start1, end1, start2, end2 string) bool {
	s1, e1 := parseClock(start1), parseClock(end1)
	s2, e2 := parseClock(start2), parseClock(end2)

	return !s1.After(e2) && !s2.After(e1)
}

// DateOnly 去掉时间部分，所有按日期的比较都先经过这里
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func SameDate(a, b time.Time) bool {
	return DateOnly(a).Equal(DateOnly(b))
}

// ISOWeekday 返回 1（周一）到 7（周日）
func ISOWeekday(t time.Time) int32 {
	wd := int32(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}
