package option

type APIOptions struct {
	Listen string `config:"listen"`
	Secret string `config:"secret"`
	Debug  bool   `config:"debug"`
}
