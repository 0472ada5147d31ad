package properties

import "os"

func RootPath() string {
	return os.Getenv("ROOT_PATH")
}

func SentinelHubClientID() string {
	return os.Getenv("SENTINEL_HUB_CLIENT_ID")
}

func SentinelHubClientSecret() string {
	return os.Getenv("SENTINEL_HUB_CLIENT_SECRET")
}

func SentinelHubTokenURL() string {
	if url := os.Getenv("SENTINEL_HUB_TOKEN_URL"); url != "" {
		return url
	}
	return "https://services.sentinel-hub.com/oauth/token"
}

func SentinelHubProcessURL() string {
	if url := os.Getenv("SENTINEL_HUB_PROCESS_URL"); url != "" {
		return url
	}
	return "https://services.sentinel-hub.com/api/v1/process"
}

type Color struct {
	R, G, B uint8
}

// HealthColorMap renders health classifications in overlay images.
var HealthColorMap = map[string]Color{
	"excellent": {0x2d, 0x5a, 0x3d},
	"good":      {0x4a, 0x7c, 0x59},
	"fair":      {0x8f, 0xbc, 0x8f},
	"poor":      {0xda, 0xa5, 0x20},
	"critical":  {0xdc, 0x14, 0x3c},
	"unknown":   {0x80, 0x80, 0x80},
}

func DiscordErrorNotificationUrl() string {
	return os.Getenv("DISCORD_ERROR_NOTIFICATION_URL")
}
func DiscordSuccessNotificationUrl() string {
	return os.Getenv("DISCORD_SUCCESS_NOTIFICATION_URL")
}
