package cmd

// RegisterAllCommands 注册全部命令
func RegisterAllCommands() {
	RegisterSpacesCmd()
	RegisterValidateCmd()
	RegisterSignalsCmd()
	RegisterKlineCmd()
	RegisterPingCmd()
}
