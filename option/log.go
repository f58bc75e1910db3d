package option

type LogOptions struct {
	Disabled bool   `config:"disabled"`
	File     string `config:"file"`
	Debug    bool   `config:"debug"`
	Level    string `config:"level"`
	Color    bool   `config:"color"`
}
