package daemon

const (
	HomeFlag                 = "home"
	forceFlag                = "force"
	passwordFlag             = "password"
	noPasswordFlag           = "noPassword"
	urlFlag                  = "url"
	useKnownRestGatewaysFlag = "useKnownRestGateways"
	readyFlag                = "ready"
	maxFeeFlag               = "maxFee"
)
