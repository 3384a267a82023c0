package archive

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/crytic/concolic/symbolic"
	"golang.org/x/crypto/sha3"
)

// Fingerprint returns a hex-encoded Keccak-256 hash identifying the provided path. Two paths share a fingerprint if
// they reach the same branches, calls and returns in the same order under the same constraints, regardless of which
// concrete inputs drove them there.
func Fingerprint(path *symbolic.Path) string {
	hash := sha3.NewLegacyKeccak256()

	var buf [8]byte
	for _, entry := range path.Entries() {
		hash.Write([]byte{byte(entry.Kind)})
		switch entry.Kind {
		case symbolic.PathEntryBranch:
			binary.BigEndian.PutUint32(buf[:4], uint32(entry.Branch))
			hash.Write(buf[:4])
			if entry.Pred != nil {
				hash.Write([]byte(entry.Pred.String()))
			}
			hash.Write([]byte{0})
		case symbolic.PathEntryCall:
			binary.BigEndian.PutUint32(buf[:4], uint32(entry.Function))
			hash.Write(buf[:4])
		}
	}
	return hex.EncodeToString(hash.Sum(nil))
}
