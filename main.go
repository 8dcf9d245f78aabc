package main

import (
	"machiavelli-be/internal/api/http"
	"machiavelli-be/internal/config"
	"machiavelli-be/internal/deck"
	"machiavelli-be/internal/logger"
	"machiavelli-be/internal/service"
	"machiavelli-be/internal/service/game"
	"machiavelli-be/internal/state"
	"machiavelli-be/internal/store"

	"go.uber.org/zap"
)

func main() {
	// 加载配置
	cfg := config.InitConfig()

	// 初始化日志器
	logger.InitLogger(cfg.LogLevel, cfg.LogFile)
	defer zap.L().Sync()

	// 牌库在开局时才读取，这里先校验一次
	supply := deck.NewFileSupply(cfg.CharacterFile, cfg.BuildingFile)
	if _, err := supply.LoadCharacters(); err != nil {
		zap.L().Fatal("加载角色牌失败", zap.Error(err))
	}
	if _, err := supply.LoadBuildings(); err != nil {
		zap.L().Fatal("加载建筑牌失败", zap.Error(err))
	}

	// 对局结果存储是可选的
	var results service.ResultStore
	if cfg.ResultsDB != "" {
		st, err := store.Open(cfg.ResultsDB)
		if err != nil {
			zap.L().Fatal("打开结果数据库失败", zap.String("path", cfg.ResultsDB), zap.Error(err))
		}
		defer st.Close()

		results = st
	}

	gameSvc := service.NewGameService(
		service.Config{
			Game: game.Options{
				WinBuildings:  cfg.WinBuildings,
				MinPlayers:    cfg.MinPlayers,
				MaxRounds:     cfg.MaxRounds,
				IdleRounds:    cfg.IdleRounds,
				PromptTimeout: cfg.PromptTimeout,
			},
			BotPlayers: cfg.BotPlayers,
			BotDelay:   cfg.BotDelay,
		},
		supply,
		results,
	)

	// 组装应用状态
	appState := state.NewAppState(cfg, gameSvc)

	// 启动服务器
	if err := http.RunServer(appState); err != nil {
		zap.L().Error("服务器异常退出", zap.Error(err))
	}
}
