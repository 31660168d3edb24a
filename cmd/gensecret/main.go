// Command gensecret prints a random key suitable for JWT_SECRET.
package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
)

// 32 bytes matches the HS256 block recommendation
const secretLen = 32

func main() {
	b := make([]byte, secretLen)

	if _, err := rand.Read(b); err != nil {
		fmt.Fprintf(os.Stderr, "error while generating secret key: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(hex.EncodeToString(b))
}
