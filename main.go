package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/ByLCY/formfill/fonts"
	"github.com/ByLCY/formfill/layout"
	"github.com/ByLCY/formfill/renderer"
	canvasrenderer "github.com/ByLCY/formfill/renderer/canvas"
	pdfrenderer "github.com/ByLCY/formfill/renderer/pdf"
	"github.com/ByLCY/formfill/settings"
)

// config 汇总命令行参数。
type config struct {
	template   string
	settings   string
	record     string
	output     string
	preview    string
	page       int
	zoom       float64
	outline    bool
	raw        bool
	background string
	debug      string
	check      bool
}

var errDiagnostics = errors.New("存在无法解析的变量")

func main() {
	var cfg config
	flag.StringVar(&cfg.template, "template", "form.pdf", "模板 PDF 路径")
	flag.StringVar(&cfg.settings, "settings", "settings.json", "字段与变量配置路径")
	flag.StringVar(&cfg.record, "record", "lastinfo.json", "地块记录 JSON 路径（不存在时使用内置示例）")
	flag.StringVar(&cfg.output, "out", "output/filled.pdf", "填好的 PDF 输出路径")
	flag.StringVar(&cfg.preview, "preview", "", "预览 PNG 输出路径，设置后不生成 PDF")
	flag.IntVar(&cfg.page, "page", 0, "预览页，从 0 开始")
	flag.Float64Var(&cfg.zoom, "zoom", 1, "预览缩放：每 pt 对应的像素数")
	flag.BoolVar(&cfg.outline, "outline", false, "预览时绘制字段边框")
	flag.BoolVar(&cfg.raw, "raw", false, "预览时显示模板原文而不解析变量")
	flag.StringVar(&cfg.background, "background", "", "预览页的背景图片（模板页位图）")
	flag.StringVar(&cfg.debug, "debug", "", "布局调试 JSON 输出路径")
	flag.BoolVar(&cfg.check, "check", false, "只检查变量解析并输出诊断")
	flag.Parse()

	msg, err := run(cfg, log.Default())
	if err != nil {
		log.Fatalf("生成失败: %v", err)
	}
	fmt.Println(msg)
}

// run 串联配置读取、布局与渲染，返回成功提示。
func run(cfg config, logger *log.Logger) (string, error) {
	sizes, err := pdfrenderer.PageSizes(cfg.template)
	if err != nil {
		return "", err
	}
	store, err := settings.Open(cfg.settings, logger)
	if err != nil {
		return "", err
	}
	if err := store.EnsurePages(len(sizes)); err != nil {
		return "", err
	}
	record, err := settings.LoadRecord(cfg.record)
	if err != nil {
		return "", err
	}
	opts := store.Options()
	pages := opts.PageInputs(sizes)

	build := layout.BuildOptions{
		Variables: opts.Variables,
		Logger:    logger,
		Debug:     layout.DebugOptions{Diagnostics: cfg.check || cfg.debug != ""},
	}

	switch {
	case cfg.check:
		build.Measurer = fonts.Helvetica
		build.Logger = nil
		result, err := layout.Build(pages, record, build)
		if err != nil {
			return "", fmt.Errorf("布局计算失败: %w", err)
		}
		if err := writeDebug(result, cfg.debug); err != nil {
			return "", err
		}
		return check(result, logger)

	case cfg.preview != "":
		build.Measurer = fonts.Helvetica
		build.Raw = cfg.raw
		result, err := layout.Build(pages, record, build)
		if err != nil {
			return "", fmt.Errorf("布局计算失败: %w", err)
		}
		if err := writeDebug(result, cfg.debug); err != nil {
			return "", err
		}
		popts := canvasrenderer.Options{Page: cfg.page, Zoom: cfg.zoom, Outline: cfg.outline}
		if cfg.background != "" {
			popts.Backgrounds = map[int]canvasrenderer.Resource{cfg.page: {Path: cfg.background}}
		}
		if err := renderTo(canvasrenderer.NewRendererWithOptions(popts), result, cfg.preview); err != nil {
			return "", err
		}
		return fmt.Sprintf("已生成预览：%s", cfg.preview), nil

	default:
		build.Measurer = pdfrenderer.NewMeasurer()
		result, err := layout.Build(pages, record, build)
		if err != nil {
			return "", fmt.Errorf("布局计算失败: %w", err)
		}
		if err := writeDebug(result, cfg.debug); err != nil {
			return "", err
		}
		if err := renderTo(pdfrenderer.NewRenderer(cfg.template), result, cfg.output); err != nil {
			return "", err
		}
		return fmt.Sprintf("已生成 PDF：%s", cfg.output), nil
	}
}

// check 输出每个字段的诊断信息，有诊断时返回 errDiagnostics。
func check(result *layout.Result, logger *log.Logger) (string, error) {
	count := 0
	for _, page := range result.Pages {
		for _, tb := range page.Texts {
			if tb.Debug == nil {
				continue
			}
			for _, d := range tb.Debug.Diagnostics {
				logger.Printf("第 %d 页字段 %d: %s", page.Index+1, tb.FieldID, d)
				count++
			}
		}
	}
	if count > 0 {
		return "", fmt.Errorf("%w：共 %d 条", errDiagnostics, count)
	}
	return "所有变量均已解析", nil
}

func renderTo(r renderer.Renderer, result *layout.Result, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	data, err := r.Render(result)
	if err != nil {
		return fmt.Errorf("渲染失败: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("写入 %s 失败: %w", path, err)
	}
	return nil
}

func writeDebug(result *layout.Result, debugPath string) error {
	if strings.TrimSpace(debugPath) == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(result, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
