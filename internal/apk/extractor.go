package apk

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/errs"
	"github.com/shogo82148/androidbinary/apk"
)

type ManifestExtractor struct{}

func NewExtractor() *ManifestExtractor {
	return &ManifestExtractor{}
}

// Extract parses the binary manifest and the v1 signature block.
func (e *ManifestExtractor) Extract(data []byte) (Metadata, error) {
	reader := bytes.NewReader(data)

	pkg, err := apk.OpenZipReader(reader, int64(len(data)))
	if err != nil {
		return Metadata{}, errs.Newf(errs.KindInvalidArgument, "not a valid APK: %s", err)
	}
	defer pkg.Close()

	manifest := pkg.Manifest()

	versionCode, err := manifest.VersionCode.Int32()
	if err != nil {
		return Metadata{}, errs.New(errs.KindInvalidArgument, "APK manifest has no version code")
	}

	versionName, err := manifest.VersionName.String()
	if err != nil {
		versionName = ""
	}

	zr, err := zip.NewReader(reader, int64(len(data)))
	if err != nil {
		return Metadata{}, errs.Newf(errs.KindInvalidArgument, "not a valid APK: %s", err)
	}

	fingerprint, err := signerFingerprint(zr)
	if err != nil {
		return Metadata{}, err
	}

	return Metadata{
		PackageName:            pkg.PackageName(),
		VersionCode:            int64(versionCode),
		VersionName:            versionName,
		CertificateFingerprint: fingerprint,
	}, nil
}

func signerFingerprint(zr *zip.Reader) (string, error) {
	for _, file := range zr.File {
		if !isSignatureBlock(file.Name) {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return "", fmt.Errorf("failed to open signature block: %w", err)
		}
		block, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return "", fmt.Errorf("failed to read signature block: %w", err)
		}

		return certificateFingerprint(block)
	}

	return "", errs.New(errs.KindInvalidArgument, "APK is not signed")
}

func isSignatureBlock(name string) bool {
	dir, file := path.Split(name)
	if dir != "META-INF/" {
		return false
	}

	switch strings.ToUpper(path.Ext(file)) {
	case ".RSA", ".DSA", ".EC":
		return true
	default:
		return false
	}
}
