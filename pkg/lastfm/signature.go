package lastfm

import (
	"crypto/md5"
	"encoding/hex"
	"sort"
)

// calculateSignature generates an MD5 signature for Last.fm API requests.
//
// The signature is calculated by:
// 1. Sorting parameter keys alphabetically
// 2. Concatenating key+value pairs (e.g., "keyAvalueAkeyBvalueB")
// 3. Appending the API secret
// 4. Taking the MD5 hash of the result
//
// The "format" and "api_sig" parameters are contractually excluded from
// the signed payload, so they are skipped regardless of input order.
// Returns ErrMissingSecret when no secret is configured.
func calculateSignature(params map[string]string, secret string) (string, error) {
	if secret == "" {
		return "", ErrMissingSecret
	}

	// Sort keys alphabetically, skipping the excluded parameters
	keys := make([]string, 0, len(params))
	for k := range params {
		if k == "format" || k == "api_sig" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	// Build signature string: key1value1key2value2...secret
	var sigPlain string
	for _, k := range keys {
		sigPlain += k + params[k]
	}
	sigPlain += secret

	hasher := md5.New()
	hasher.Write([]byte(sigPlain))
	return hex.EncodeToString(hasher.Sum(nil)), nil
}
