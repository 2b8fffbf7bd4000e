package config

// SetPath sets the config file path for testing purposes
func (a *App) SetPath(path string) {
	a.path = path
}
