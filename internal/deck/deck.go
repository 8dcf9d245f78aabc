// Package deck 从 YAML 牌库文件加载角色牌和建筑牌。
// 文件路径为空时使用内置的标准牌库。
package deck

import (
	"bytes"
	"embed"
	"fmt"

	"machiavelli-be/internal/service/game"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	defaultCharacterFile = "characters.yaml"
	defaultBuildingFile  = "buildings.yaml"
)

//go:embed characters.yaml buildings.yaml
var defaults embed.FS

type characterFile struct {
	Characters []string `mapstructure:"characters"`
}

type buildingEntry struct {
	Name  string `mapstructure:"name"`
	Cost  int    `mapstructure:"cost"`
	Color string `mapstructure:"color"`
	// 省略时为 1
	Count int `mapstructure:"count"`
}

type buildingFile struct {
	Buildings []buildingEntry `mapstructure:"buildings"`
}

// FileSupply 实现 game.DeckSupply，每次调用都重新读取文件
type FileSupply struct {
	CharacterFile string
	BuildingFile  string
}

func NewFileSupply(characterFile, buildingFile string) *FileSupply {
	return &FileSupply{
		CharacterFile: characterFile,
		BuildingFile:  buildingFile,
	}
}

func (s *FileSupply) LoadCharacters() ([]game.Role, error) {
	return LoadCharacterFile(s.CharacterFile)
}

func (s *FileSupply) LoadBuildings() ([]game.BuildingTemplate, error) {
	return LoadBuildingFile(s.BuildingFile)
}

func LoadCharacterFile(path string) ([]game.Role, error) {
	v, err := open(path, defaultCharacterFile)
	if err != nil {
		return nil, err
	}

	var file characterFile
	if err := v.Unmarshal(&file); err != nil {
		return nil, fmt.Errorf("解析角色牌库失败: %w", err)
	}

	roles := make([]game.Role, 0, len(file.Characters))
	for _, name := range file.Characters {
		role, ok := game.ParseRole(name)
		if !ok {
			return nil, fmt.Errorf("%w: unknown character %q", game.ErrInvalidDeck, name)
		}
		roles = append(roles, role)
	}

	return roles, nil
}

func LoadBuildingFile(path string) ([]game.BuildingTemplate, error) {
	v, err := open(path, defaultBuildingFile)
	if err != nil {
		return nil, err
	}

	var file buildingFile
	if err := v.Unmarshal(&file); err != nil {
		return nil, fmt.Errorf("解析建筑牌库失败: %w", err)
	}

	templates := make([]game.BuildingTemplate, 0, len(file.Buildings))
	for _, b := range file.Buildings {
		color, ok := game.ParseColor(b.Color)
		if !ok {
			return nil, fmt.Errorf("%w: building %q has unknown color %q", game.ErrInvalidDeck, b.Name, b.Color)
		}

		count := b.Count
		if count == 0 {
			count = 1
		}

		templates = append(templates, game.BuildingTemplate{
			Name:  b.Name,
			Cost:  b.Cost,
			Color: color,
			Count: count,
		})
	}

	zap.L().Debug(
		"建筑牌库加载完成",
		zap.String("path", path),
		zap.Int("templates", len(templates)),
	)

	return templates, nil
}

func open(path, fallback string) (*viper.Viper, error) {
	v := viper.New()

	if path == "" {
		data, err := defaults.ReadFile(fallback)
		if err != nil {
			return nil, fmt.Errorf("读取内置牌库失败: %w", err)
		}

		v.SetConfigType("yaml")
		if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("解析内置牌库失败: %w", err)
		}

		return v, nil
	}

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("加载牌库 %s 失败: %w", path, err)
	}

	return v, nil
}
