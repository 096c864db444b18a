package config

// 加载进度条配置常量（屏幕底部居中）

const (
	// LoadingBarWidth 进度条宽度
	LoadingBarWidth float32 = 320

	// LoadingBarHeight 进度条高度
	LoadingBarHeight float32 = 14

	// LoadingBarBottomMargin 进度条距离屏幕底部的距离
	LoadingBarBottomMargin float32 = 36

	// LoadingBarBorder 进度条边框宽度
	LoadingBarBorder float32 = 2

	// LoadingTextOffsetY 文字提示相对进度条的 Y 偏移
	LoadingTextOffsetY float32 = -20
)

// LoadingBarMilestones 进度条刻度（百分比）
var LoadingBarMilestones = []float64{25, 50, 75}
