package seal

import (
	"bytes"
	"errors"
	"testing"

	"github.com/rickcollette/blockidx/internal/errs"
)

func TestSealUnsealRoundTrip(t *testing.T) {
	plaintext := []byte("1,10\n3,30\n5,50\n")
	sealed, err := Seal("correct horse battery staple", plaintext)
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if bytes.Contains(sealed, plaintext) {
		t.Fatalf("sealed output contains plaintext verbatim")
	}

	got, err := Unseal("correct horse battery staple", sealed)
	if err != nil {
		t.Fatalf("Unseal: %v", err)
	}
	if !bytes.Equal(got, plaintext) {
		t.Fatalf("Unseal = %q, want %q", got, plaintext)
	}
}

func TestUnsealWrongPassphrase(t *testing.T) {
	sealed, err := Seal("passphrase-one", []byte("secret"))
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if _, err := Unseal("passphrase-two", sealed); !errors.Is(err, errs.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestUnsealTruncatedData(t *testing.T) {
	if _, err := Unseal("anything", []byte{1, 2, 3}); !errors.Is(err, errs.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestSealNoncesDiffer(t *testing.T) {
	a, err := Seal("pw", []byte("same plaintext"))
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	b, err := Seal("pw", []byte("same plaintext"))
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if bytes.Equal(a, b) {
		t.Fatalf("two seals of the same plaintext produced identical output")
	}
}
