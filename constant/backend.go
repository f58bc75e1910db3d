package constant

const (
	BackendNetlink  = "netlink"
	BackendNftables = "nftables"
	BackendMemory   = "memory"
)
