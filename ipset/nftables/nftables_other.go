//go:build !linux

package nftables

import "github.com/yaotthaha/ipsetd/ipset"

var _ ipset.Service = (*Service)(nil)

type Service struct{}

func NewService(_ string, _ TableFamily) (*Service, error) {
	return nil, ErrOSNotSupported
}

func (s *Service) LoadTypes() error {
	return ErrOSNotSupported
}

func (s *Service) OpenSession() (ipset.Session, error) {
	return nil, ErrOSNotSupported
}
