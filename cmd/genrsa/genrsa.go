// Command genrsa generates the RS256 keypair the API uses to sign and
// verify JWTs. Point JWT_PRIVATE_KEY_PATH and JWT_PUBLIC_KEY_PATH at
// the output files.
package main

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"flag"
	"log"
	"os"
)

func main() {
	privPath := flag.String("priv", "private.pem", "private key output path")
	pubPath := flag.String("pub", "public.pem", "public key output path")
	bits := flag.Int("bits", 2048, "RSA key size")
	flag.Parse()

	key, err := rsa.GenerateKey(rand.Reader, *bits)
	if err != nil {
		log.Fatalf("generate key: %v", err)
	}

	if err := writePEM(*privPath, "RSA PRIVATE KEY", x509.MarshalPKCS1PrivateKey(key)); err != nil {
		log.Fatalf("write private key: %v", err)
	}

	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		log.Fatalf("marshal public key: %v", err)
	}
	if err := writePEM(*pubPath, "PUBLIC KEY", pubDER); err != nil {
		log.Fatalf("write public key: %v", err)
	}

	log.Printf("wrote %s and %s", *privPath, *pubPath)
}

func writePEM(path, blockType string, der []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return pem.Encode(f, &pem.Block{Type: blockType, Bytes: der})
}
