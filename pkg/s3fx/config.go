package s3fx

type Config struct {
	Bucket string
	Region string
	// Endpoint overrides the AWS endpoint, e.g. for MinIO
	Endpoint     string
	UsePathStyle bool

	// Static credentials. When empty the default credential chain is used.
	AccessKey string
	SecretKey string
}
