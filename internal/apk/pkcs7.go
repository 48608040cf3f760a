package apk

import (
	"crypto/sha256"
	"crypto/x509"
	"encoding/asn1"
	"encoding/hex"

	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/errs"
)

// contentInfo and signedData cover the leading fields of a PKCS#7
// SignedData structure; trailing signer infos are ignored.
type contentInfo struct {
	ContentType asn1.ObjectIdentifier
	Content     asn1.RawValue `asn1:"optional,tag:0"`
}

type signedData struct {
	Version          int
	DigestAlgorithms asn1.RawValue
	ContentInfo      asn1.RawValue
	Certificates     asn1.RawValue `asn1:"optional,tag:0"`
}

// certificateFingerprint returns the SHA-256 of the first certificate in a
// PKCS#7 signature block.
func certificateFingerprint(block []byte) (string, error) {
	var info contentInfo
	if _, err := asn1.Unmarshal(block, &info); err != nil {
		return "", errs.New(errs.KindInvalidArgument, "malformed APK signature block")
	}

	var sd signedData
	if _, err := asn1.Unmarshal(info.Content.Bytes, &sd); err != nil {
		return "", errs.New(errs.KindInvalidArgument, "malformed APK signature block")
	}

	var cert asn1.RawValue
	if _, err := asn1.Unmarshal(sd.Certificates.Bytes, &cert); err != nil {
		return "", errs.New(errs.KindInvalidArgument, "APK signature block carries no certificate")
	}

	if _, err := x509.ParseCertificate(cert.FullBytes); err != nil {
		return "", errs.New(errs.KindInvalidArgument, "APK signer certificate is invalid")
	}

	sum := sha256.Sum256(cert.FullBytes)
	return hex.EncodeToString(sum[:]), nil
}
