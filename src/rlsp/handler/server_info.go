package handler

import (
	"fmt"

	"github.com/drzbida/roslyn-lsp/src/rlsp/entity"
	"github.com/drzbida/roslyn-lsp/src/rlsp/internal/serverinfofile"
	"go.uber.org/config"
)

const (
	_serverAddressKey = "roslyn-address"
	_configKeyServer  = "server"
)

// Output the configured language server endpoint to the info file.
// The JSON-RPC inbound independently adds its own address field once it is listening.
func outputServerConnectionInfo(cfg config.Provider, infofile serverinfofile.ServerInfoFile) error {
	var serverCfg entity.ServerConfig
	if err := cfg.Get(_configKeyServer).Populate(&serverCfg); err != nil {
		return fmt.Errorf("loading server config: %v", err)
	}
	if serverCfg.Address == "" {
		return fmt.Errorf("missing field %q in config", _configKeyServer+".address")
	}

	return infofile.UpdateField(_serverAddressKey, serverCfg.Address)
}
