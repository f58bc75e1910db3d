//go:build !linux

package netlink

import "github.com/yaotthaha/ipsetd/ipset"

var _ ipset.Service = (*Service)(nil)

type Service struct{}

func NewService() *Service {
	return &Service{}
}

func (s *Service) LoadTypes() error {
	return ErrOSNotSupported
}

func (s *Service) OpenSession() (ipset.Session, error) {
	return nil, ErrOSNotSupported
}
