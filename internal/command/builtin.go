package command

// Defaults builds the full built-in command registry. Registration
// order fixes both help listing order and suggestion candidate order.
func Defaults() *Registry {
	reg := NewRegistry()
	RegisterCore(reg)
	RegisterAuth(reg)
	RegisterGame(reg)
	RegisterNet(reg)
	RegisterFun(reg)
	return reg
}
