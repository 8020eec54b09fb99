package render

// ProgressEvent 生成进度事件（用于 UI 展示）
type ProgressEvent struct {
	Percent int    `json:"percent"`
	Stage   string `json:"stage"`
}

func reportProgress(progress func(ProgressEvent), percent int, stage string) {
	if progress == nil {
		return
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	progress(ProgressEvent{
		Percent: percent,
		Stage:   stage,
	})
}

// sheetPercent 第 done 个员工完成时的进度，排版占 5%~95%
func sheetPercent(done, total int) int {
	if total <= 0 {
		return 95
	}
	return 5 + done*90/total
}
