package datafile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"hyperoptbot/src/space"
)

// ParamsFile 参数文件：买入、卖出两侧的取值，缺失的一侧为 nil
type ParamsFile struct {
	Buy  space.Assignment `json:"buy,omitempty" yaml:"buy,omitempty"`
	Sell space.Assignment `json:"sell,omitempty" yaml:"sell,omitempty"`
}

// ReadParams 按扩展名读取 .yaml/.yml 或 .json
func ReadParams(path string) (*ParamsFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read params file: %w", err)
	}
	return ParseParams(data, filepath.Ext(path))
}

// ParseParams 解析参数内容，ext 为 .yaml/.yml/.json
func ParseParams(data []byte, ext string) (*ParamsFile, error) {
	var p ParamsFile
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("failed to parse yaml params: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("failed to parse json params: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported params file extension: %q", ext)
	}
	return &p, nil
}

// WriteParams 按扩展名写参数文件
func WriteParams(path string, p *ParamsFile) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(p)
	case ".json":
		data, err = json.MarshalIndent(p, "", "  ")
	default:
		return fmt.Errorf("unsupported params file extension: %q", filepath.Ext(path))
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
