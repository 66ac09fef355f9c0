package settings

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// exampleRecord 是一份县评估网站的地块记录，没有保存过记录时用于预览。
//
//go:embed example_record.json
var exampleRecord []byte

// ExampleRecord returns a freshly decoded copy of the bundled parcel record.
func ExampleRecord() any {
	var record any
	if err := json.Unmarshal(exampleRecord, &record); err != nil {
		panic(fmt.Sprintf("settings: 内置示例记录无效: %v", err))
	}
	return record
}

// LoadRecord 读取抓取得到的记录 JSON；文件不存在时返回内置示例记录。
func LoadRecord(path string) (any, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return ExampleRecord(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("settings: 读取记录 %s 失败: %w", path, err)
	}
	var record any
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("settings: 解析记录 %s 失败: %w", path, err)
	}
	return record, nil
}

// SaveRecord 保存最近一次使用的记录，供下次预览使用。
func SaveRecord(path string, record any) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("settings: 序列化记录失败: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("settings: 写入记录 %s 失败: %w", path, err)
	}
	return nil
}
