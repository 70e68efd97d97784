package config

import "flag"

var CliArgs *CliConfig

type CliConfig struct {
	ConfigFile    string
	ListenAddress string
	Debug         bool
	Version       bool
}

func ParseArgs() {
	if CliArgs != nil {
		panic("already defined")
	}
	CliArgs = &CliConfig{}
	flag.StringVar(&CliArgs.ConfigFile, "config", "", "Path to the config file")
	flag.StringVar(&CliArgs.ListenAddress, "listen", "", "Address to listen on, overrides listen_address")
	flag.BoolVar(&CliArgs.Debug, "d", false, "Enable debug mode")
	flag.BoolVar(&CliArgs.Debug, "debug", false, "Enable debug mode")
	flag.BoolVar(&CliArgs.Version, "v", false, "Print version and exit")
	flag.Parse()
}
