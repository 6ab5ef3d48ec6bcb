package iffl

import (
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

const (
	rcd = utf8.RuneError // decoding replacement character
	rce = '?'            // encoding replacement character
)

// decode maps unshifted PETSCII to unicode. Control codes and graphic
// characters decode to the replacement character.
var decode = func() (t [256]rune) {
	for i := range t {
		t[i] = rcd
	}
	for c := 0x20; c < 0x5b; c++ {
		t[c] = rune(c)
	}
	t[0x5b] = '['
	t[0x5c] = '£'
	t[0x5d] = ']'
	t[0x5e] = '↑'
	t[0x5f] = '←'
	t[0xa0] = '\u00a0' // shifted space
	return
}()

var encode = map[rune]byte{
	'£': 0x5c, '↑': 0x5e, '←': 0x5f, '\u00a0': 0xa0,
}

func encodeRune(r rune) byte {
	switch {
	case r >= 0x20 && r <= 0x5b, r == ']':
		return byte(r)
	case r >= 'a' && r <= 'z':
		return byte(r - 'a' + 'A')
	}
	if c, ok := encode[r]; ok {
		return c
	}
	return rce
}

type charmap struct{}

// PETSCII is the unshifted PETSCII character set used for file names on the
// MEGA65. Lower case letters are encoded as their upper case counterpart.
var PETSCII encoding.Encoding = &charmap{}

func (m *charmap) NewDecoder() *encoding.Decoder {
	return &encoding.Decoder{Transformer: &decoder{}}
}

func (m *charmap) NewEncoder() *encoding.Encoder {
	return &encoding.Encoder{Transformer: &encoder{}}
}

type decoder struct{}

func (d *decoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for _, c := range src {
		r := decode[c]
		if utf8.RuneLen(r) > len(dst)-nDst {
			err = transform.ErrShortDst
			break
		}
		nDst += utf8.EncodeRune(dst[nDst:], r)
		nSrc++
	}
	return
}

func (d *decoder) Reset() {}

type encoder struct{}

func (e *encoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		if !atEOF && !utf8.FullRune(src[nSrc:]) {
			err = transform.ErrShortSrc
			break
		}
		if nDst >= len(dst) {
			err = transform.ErrShortDst
			break
		}
		r, size := utf8.DecodeRune(src[nSrc:])
		dst[nDst] = encodeRune(r)
		nDst++
		nSrc += size
	}
	return
}

func (e *encoder) Reset() {}
