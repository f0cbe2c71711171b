package web

import (
	"embed"
	"html/template"
	"io/fs"
)

// TemplatesFS 服务端渲染的页面模板
//
//go:embed templates/*.html
var TemplatesFS embed.FS

// StaticFS 页面脚本与样式
//
//go:embed static/*
var StaticFS embed.FS

// Templates 解析全部页面模板
func Templates() (*template.Template, error) {
	return template.New("").Funcs(FuncMap()).ParseFS(TemplatesFS, "templates/*.html")
}

// Static 去掉 static/ 前缀后的静态文件系统
func Static() (fs.FS, error) {
	return fs.Sub(StaticFS, "static")
}
