package core

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// InputHash fingerprints the input of one evaluation so identical requests can be
// recognised as such.
type InputHash Hash

func (h InputHash) String() string { return Hash(h).String() }

// ComputeInputHash hashes a test name, its count table and its options. Option keys are
// sorted so map iteration order never leaks into the fingerprint.
func ComputeInputHash(test TestName, table [][]int, options map[string]interface{}) InputHash {
	var data strings.Builder
	data.WriteString(test.String())
	data.WriteString("|")
	for i, row := range table {
		if i > 0 {
			data.WriteString(";")
		}
		for j, v := range row {
			if j > 0 {
				data.WriteString(",")
			}
			data.WriteString(fmt.Sprintf("%d", v))
		}
	}

	keys := make([]string, 0, len(options))
	for k := range options {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		data.WriteString("|")
		data.WriteString(key)
		data.WriteString("=")
		data.WriteString(fmt.Sprintf("%v", options[key]))
	}

	return InputHash(NewHash([]byte(data.String())))
}
