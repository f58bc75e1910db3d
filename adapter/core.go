package adapter

type Core interface {
	Manager() SetManager
	GetSource(tag string) Source
	ListSource() []Source
}
