package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xpwu/go-cmd/arg"
	"github.com/xpwu/go-cmd/cmd"

	"hyperoptbot/src/config"
	"hyperoptbot/src/datafile"
	"hyperoptbot/src/space"
	"hyperoptbot/src/strategies"
)

// spacesOutput spaces 命令的 JSON 输出
type spacesOutput struct {
	Strategy   string              `json:"strategy"`
	Indicators []string            `json:"indicators"`
	Buy        []space.Description `json:"buy"`
	Sell       []space.Description `json:"sell"`
}

// RegisterSpacesCmd 注册参数空间查询命令
func RegisterSpacesCmd() {
	var name string
	var list bool

	cmd.RegisterCmd("spaces", "print buy and sell parameter spaces of a strategy as JSON", func(args *arg.Arg) {
		args.String(&name, "s", "strategy name (default: from config)")
		args.Bool(&list, "list", "list all registered strategies")
		args.Parse()

		if list {
			fmt.Println("📋 可用策略:")
			for _, n := range strategies.Default().List() {
				fmt.Printf("  🔸 %s\n", n)
			}
			return
		}

		if name == "" {
			name = config.AppConfig.Hyperopt.Strategy
		}

		out, err := describeStrategy(name)
		if err != nil {
			fmt.Printf("❌ 获取参数空间失败: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(out))
	})
}

func describeStrategy(name string) ([]byte, error) {
	h, err := strategies.Default().Get(name)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(spacesOutput{
		Strategy:   h.Name(),
		Indicators: h.Indicators().Columns(),
		Buy:        h.BuySpace().Describe(),
		Sell:       h.SellSpace().Describe(),
	}, "", "  ")
}

// RegisterValidateCmd 注册参数文件校验命令
func RegisterValidateCmd() {
	var name string
	var paramsFile string

	cmd.RegisterCmd("validate", "check a params file against the strategy spaces", func(args *arg.Arg) {
		args.String(&name, "s", "strategy name (default: from config)")
		args.String(&paramsFile, "p", "params file (.yaml/.yml/.json)")
		args.Parse()

		if name == "" {
			name = config.AppConfig.Hyperopt.Strategy
		}
		if paramsFile == "" {
			paramsFile = config.AppConfig.Hyperopt.ParamsFile
		}
		if paramsFile == "" {
			fmt.Printf("❌ Error: params file is required\n")
			fmt.Printf("💡 Usage: ./bin/hyperoptbot validate -s bb_rsi -p params.yaml\n")
			os.Exit(1)
		}

		h, err := strategies.Default().Get(name)
		if err != nil {
			fmt.Printf("❌ %v\n", err)
			os.Exit(1)
		}

		p, err := datafile.ReadParams(paramsFile)
		if err != nil {
			fmt.Printf("❌ 读取参数文件失败: %v\n", err)
			os.Exit(1)
		}

		report := validateParams(h, p)
		fmt.Printf("🔍 策略: %s  参数文件: %s\n", h.Name(), paramsFile)
		for _, w := range report.Warnings {
			fmt.Printf("⚠️ %s\n", w)
		}
		if len(report.Errors) > 0 {
			for _, e := range report.Errors {
				fmt.Printf("❌ %s\n", e)
			}
			os.Exit(1)
		}
		fmt.Println("✅ 参数有效")
	})
}

// paramsReport 参数校验结果，Warnings 不影响评估
type paramsReport struct {
	Warnings []string
	Errors   []string
}

// validateParams 检查取值域、未知键，并尝试构建评估器
func validateParams(h strategies.Hyperopt, p *datafile.ParamsFile) paramsReport {
	var r paramsReport

	sides := []struct {
		name  string
		space space.Space
		a     space.Assignment
		build func(space.Assignment) (strategies.Evaluator, error)
	}{
		{"buy", h.BuySpace(), p.Buy, h.BuyEvaluator},
		{"sell", h.SellSpace(), p.Sell, h.SellEvaluator},
	}

	for _, s := range sides {
		if s.a == nil {
			r.Warnings = append(r.Warnings, fmt.Sprintf("%s: 未提供参数，使用参考规则", s.name))
			continue
		}
		for _, k := range s.space.Unknown(s.a) {
			r.Warnings = append(r.Warnings, fmt.Sprintf("%s: 未知参数 %q 将被忽略", s.name, k))
		}
		if err := s.space.Check(s.a); err != nil {
			r.Errors = append(r.Errors, fmt.Sprintf("%s: %v", s.name, err))
			continue
		}
		if _, err := s.build(s.a); err != nil {
			r.Errors = append(r.Errors, fmt.Sprintf("%s: %v", s.name, err))
		}
	}
	return r
}
