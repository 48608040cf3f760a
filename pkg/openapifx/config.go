package openapifx

type Config struct {
	Enabled bool
	// PublicHost and PublicPath override the host and base path of the
	// served document when the API sits behind a proxy.
	PublicHost string
	PublicPath string
}
