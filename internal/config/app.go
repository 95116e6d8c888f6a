package config

import "github.com/joho/godotenv"

type AppConfig struct {
	Server  ServerConfig
	Game    GameConfig
	Storage StorageConfig
	Log     LogConfig
}

// LoadApp reads an optional .env file, then every section from the
// environment. Values already set in the environment win over .env.
func LoadApp() (AppConfig, error) {
	_ = godotenv.Load()

	logCfg, err := LoadLog()
	if err != nil {
		return AppConfig{}, err
	}
	serverCfg, err := LoadServer()
	if err != nil {
		return AppConfig{}, err
	}
	gameCfg, err := LoadGame()
	if err != nil {
		return AppConfig{}, err
	}
	storageCfg, err := LoadStorage()
	if err != nil {
		return AppConfig{}, err
	}
	return AppConfig{
		Server:  serverCfg,
		Game:    gameCfg,
		Storage: storageCfg,
		Log:     logCfg,
	}, nil
}
