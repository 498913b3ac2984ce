package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/any-hub/pathdoc/internal/config"
	"github.com/any-hub/pathdoc/internal/logging"
	"github.com/any-hub/pathdoc/internal/server"
	"github.com/any-hub/pathdoc/internal/server/routes"
	"github.com/any-hub/pathdoc/internal/version"
)

// cliOptions 汇总 CLI 标志解析后的结果，便于在测试中注入。
type cliOptions struct {
	configPath  string
	checkOnly   bool
	showVersion bool
	resolveName string
}

var (
	stdOut io.Writer = os.Stdout
	stdErr io.Writer = os.Stderr
)

func main() {
	opts, err := parseCLIFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(stdErr, err.Error())
		os.Exit(2)
	}
	os.Exit(run(opts))
}

// run 根据解析到的 CLI 选项执行业务流程，并返回退出码，方便测试。
func run(opts cliOptions) int {
	if opts.showVersion {
		printVersion()
		return 0
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(stdErr, "加载配置失败: %v\n", err)
		return 1
	}

	env := cfg.Environment()
	logger, err := logging.InitLogger(cfg.Global, env)
	if err != nil {
		fmt.Fprintf(stdErr, "初始化日志失败: %v\n", err)
		return 1
	}

	// 启动顺序：配置 → 宿主环境 → 文档注册表 → Fiber 管理接口。
	registry, err := server.NewDocumentRegistry(cfg, server.RegistryOptions{Logger: logger, Env: env})
	if err != nil {
		fmt.Fprintf(stdErr, "构建文档注册表失败: %v\n", err)
		return 1
	}
	defer registry.Close()

	if opts.checkOnly {
		fields := logging.BaseFields("check_config", opts.configPath)
		fields["paths"] = len(registry.PathNames())
		fields["documents"] = config.DocumentNames(cfg.Documents)
		fields["result"] = "ok"
		logger.WithFields(fields).Info("配置校验通过")
		return 0
	}

	if opts.resolveName != "" {
		resolved, err := registry.Resolve(opts.resolveName)
		if err != nil {
			fmt.Fprintf(stdErr, "解析路径失败: %v\n", err)
			return 1
		}
		fmt.Fprintln(stdOut, resolved.FullPath)
		return 0
	}

	fields := logging.BaseFields("startup", opts.configPath)
	fields["documents"] = config.DocumentNames(cfg.Documents)
	fields["listen_port"] = cfg.Global.ListenPort
	fields["runtime_context"] = cfg.Global.Context().String()
	fields["platform"] = string(env.Platform())
	fields["version"] = version.Full()
	logger.WithFields(fields).Info("配置加载完成")

	if err := startHTTPServer(cfg, registry, logger); err != nil {
		fmt.Fprintf(stdErr, "HTTP 服务启动失败: %v\n", err)
		return 1
	}
	return 0
}

// parseCLIFlags 解析 CLI 参数，并结合环境变量计算最终的配置路径。
func parseCLIFlags(args []string) (cliOptions, error) {
	fs := flag.NewFlagSet("pathdoc", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		configFlag  string
		checkOnly   bool
		showVer     bool
		resolveName string
	)

	fs.StringVar(&configFlag, "config", "", "配置文件路径（默认 ./config.toml，可被 PATHDOC_CONFIG 覆盖）")
	fs.BoolVar(&checkOnly, "check-config", false, "仅校验配置后退出")
	fs.BoolVar(&showVer, "version", false, "显示版本信息")
	fs.StringVar(&resolveName, "resolve", "", "输出路径、平台表或文档解析后的完整路径并退出")

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, fmt.Errorf("解析参数失败: %w", err)
	}

	path := os.Getenv("PATHDOC_CONFIG")
	if configFlag != "" {
		path = configFlag
	}
	if path == "" {
		path = "config.toml"
	}

	return cliOptions{
		configPath:  path,
		checkOnly:   checkOnly,
		showVersion: showVer,
		resolveName: resolveName,
	}, nil
}

func startHTTPServer(cfg *config.Config, registry *server.DocumentRegistry, logger *logrus.Logger) error {
	port := cfg.Global.ListenPort
	app, err := server.NewApp(server.AppOptions{
		Logger:      logger,
		Registry:    registry,
		ListenPort:  port,
		ReadTimeout: cfg.Global.ReadTimeout.DurationValue(),
	})
	if err != nil {
		return err
	}
	routes.RegisterDocumentRoutes(app, registry)
	routes.RegisterPathRoutes(app, registry)

	logger.WithFields(logrus.Fields{
		"action": "listen",
		"port":   port,
	}).Info("Fiber 服务启动")

	return app.Listen(fmt.Sprintf(":%d", port))
}
