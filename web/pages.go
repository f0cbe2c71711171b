package web

import "dompet/service"

// LoginPage 登录页数据
type LoginPage struct {
	Notice string
	Error  string
}

// DashboardPage 主页数据，Dashboard 同时以 JSON 形式交给页面脚本
type DashboardPage struct {
	Username       string
	SessionID      string
	Dashboard      service.Dashboard
	TimeoutSeconds int
	WarningSeconds int
}
