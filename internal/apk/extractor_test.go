package apk

import (
	"archive/zip"
	"bytes"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/asn1"
	"encoding/hex"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/errs"
)

var oidSignedData = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 7, 2}

func selfSignedCertificate(t *testing.T) []byte {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatal(err)
	}

	template := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "Android Debug"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
	}

	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	if err != nil {
		t.Fatal(err)
	}

	return der
}

func signatureBlock(t *testing.T, cert []byte) []byte {
	t.Helper()

	innerInfo, err := asn1.Marshal(struct {
		ContentType asn1.ObjectIdentifier
	}{asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 7, 1}})
	if err != nil {
		t.Fatal(err)
	}

	sd, err := asn1.Marshal(struct {
		Version          int
		DigestAlgorithms asn1.RawValue
		ContentInfo      asn1.RawValue
		Certificates     asn1.RawValue
		SignerInfos      asn1.RawValue
	}{
		Version:          1,
		DigestAlgorithms: asn1.RawValue{Class: asn1.ClassUniversal, Tag: asn1.TagSet, IsCompound: true},
		ContentInfo:      asn1.RawValue{FullBytes: innerInfo},
		Certificates:     asn1.RawValue{Class: asn1.ClassContextSpecific, Tag: 0, IsCompound: true, Bytes: cert},
		SignerInfos:      asn1.RawValue{Class: asn1.ClassUniversal, Tag: asn1.TagSet, IsCompound: true},
	})
	if err != nil {
		t.Fatal(err)
	}

	block, err := asn1.Marshal(struct {
		ContentType asn1.ObjectIdentifier
		Content     asn1.RawValue
	}{
		ContentType: oidSignedData,
		Content:     asn1.RawValue{Class: asn1.ClassContextSpecific, Tag: 0, IsCompound: true, Bytes: sd},
	})
	if err != nil {
		t.Fatal(err)
	}

	return block
}

func zipReader(t *testing.T, files map[string][]byte) *zip.Reader {
	t.Helper()

	buf := new(bytes.Buffer)
	w := zip.NewWriter(buf)
	for name, content := range files {
		f, err := w.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := f.Write(content); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatal(err)
	}

	return zr
}

func TestSignerFingerprint(t *testing.T) {
	cert := selfSignedCertificate(t)
	sum := sha256.Sum256(cert)
	want := hex.EncodeToString(sum[:])

	for _, name := range []string{"META-INF/CERT.RSA", "META-INF/ANDROIDD.EC", "META-INF/key.dsa"} {
		t.Run(name, func(t *testing.T) {
			zr := zipReader(t, map[string][]byte{
				"AndroidManifest.xml":  []byte("manifest"),
				"META-INF/MANIFEST.MF": []byte("Manifest-Version: 1.0\n"),
				name:                   signatureBlock(t, cert),
			})

			got, err := signerFingerprint(zr)
			if err != nil {
				t.Fatal(err)
			}
			if got != want {
				t.Errorf("fingerprint = %s, want %s", got, want)
			}
		})
	}
}

func TestSignerFingerprint_Rejects(t *testing.T) {
	cases := map[string]map[string][]byte{
		"unsigned": {
			"AndroidManifest.xml": []byte("manifest"),
		},
		"nested signature block": {
			"assets/META-INF/CERT.RSA": signatureBlock(t, selfSignedCertificate(t)),
		},
		"garbage block": {
			"META-INF/CERT.RSA": []byte("not asn1"),
		},
		"invalid certificate": {
			"META-INF/CERT.RSA": signatureBlock(t, []byte{0x30, 0x03, 0x02, 0x01, 0x01}),
		},
	}

	for name, files := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := signerFingerprint(zipReader(t, files))
			if !errors.Is(err, errs.ErrInvalidArgument) {
				t.Errorf("expected InvalidArgument, got %v", err)
			}
		})
	}
}

func TestManifestExtractor_RejectsGarbage(t *testing.T) {
	_, err := NewExtractor().Extract([]byte("definitely not a zip"))
	if !errors.Is(err, errs.ErrInvalidArgument) {
		t.Errorf("expected InvalidArgument, got %v", err)
	}
}
