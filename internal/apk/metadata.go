package apk

// Metadata describes an uploaded APK.
type Metadata struct {
	PackageName string
	VersionCode int64
	VersionName string
	// CertificateFingerprint is the lowercase hex SHA-256 of the DER encoded
	// signer certificate.
	CertificateFingerprint string
}

// Extractor reads Metadata from raw APK bytes.
type Extractor interface {
	Extract(data []byte) (Metadata, error)
}
