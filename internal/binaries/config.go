package binaries

type Driver string

const (
	DriverFS Driver = "fs"
	DriverS3 Driver = "s3"
)

type Config struct {
	Driver Driver
	// Root directory of the filesystem driver
	Root string
	// Key prefix of the S3 driver
	Prefix string
}
