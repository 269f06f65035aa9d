package csvrepo

import "golang.org/x/text/transform"

// lineEndings rewrites "\r\n" and a lone "\r" to "\n". encoding/csv only
// splits records on "\n", so files saved with classic Mac line endings
// would otherwise collapse into a single record.
type lineEndings struct{ transform.NopResetter }

func (lineEndings) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		c := src[nSrc]
		n := 1
		if c == '\r' {
			if nSrc+1 == len(src) && !atEOF {
				// Need the next byte to tell "\r\n" from "\r".
				return nDst, nSrc, transform.ErrShortSrc
			}
			if nSrc+1 < len(src) && src[nSrc+1] == '\n' {
				n = 2
			}
			c = '\n'
		}
		if nDst >= len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		dst[nDst] = c
		nDst++
		nSrc += n
	}
	return nDst, nSrc, nil
}
