package common

const (
	AddressLength          = 20
	DefaultBIP39Passphrase = ""
	DefaultETHHDPath       = "m/44'/60'/0'/0/0"
	DefaultDFCHDPath       = "m/44'/1129'/0'/0/0"
	ZeroAddress            = "0x0000000000000000000000000000000000000000"
	NativeTokenDecimals    = 18
)
