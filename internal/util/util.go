//
// jnotify/internal/util :: util.go
//
//   Copyright (c) 2017-2026 Akinori Hattori <hattya@gmail.com>
//
//   SPDX-License-Identifier: MIT
//

package util

import (
	"bufio"
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"io"
)

// Convert converts the specified img to either image.Gray or image.NRGBA.
func Convert(img image.Image) (image.Image, error) {
	var gray bool
	switch img := img.(type) {
	case *image.Gray, *image.NRGBA:
		return img, nil
	case *image.Gray16:
		gray = true
	case *image.CMYK, *image.NRGBA64, *image.NYCbCrA, *image.Paletted, *image.RGBA, *image.RGBA64, *image.YCbCr:
	default:
		return nil, fmt.Errorf("unsupported image: %T", img)
	}
	var dst draw.Image
	if gray {
		dst = image.NewGray(img.Bounds())
	} else {
		dst = image.NewNRGBA(img.Bounds())
	}
	draw.Draw(dst, dst.Bounds(), img, img.Bounds().Min, draw.Src)
	return dst, nil
}

// ReadBlocks reads whole blocks of size bs until they are followed by delim
// and decode accepts them, and returns the decoded data. delim is consumed.
// The blocks read so far are passed to decode at the end of the input.
func ReadBlocks(br *bufio.Reader, bs int, delim []byte, decode func([]byte) ([]byte, error)) ([]byte, error) {
	if bs <= 0 {
		return nil, fmt.Errorf("invalid block size: %v", bs)
	}
	var b []byte
	for {
		blk := make([]byte, bs)
		if _, err := io.ReadFull(br, blk); err != nil {
			if err == io.ErrUnexpectedEOF || len(b) == 0 {
				return nil, err
			}
			return decode(b)
		}
		b = append(b, blk...)
		p, err := br.Peek(len(delim))
		switch {
		case err != nil:
			if len(p) == 0 && err == io.EOF {
				return decode(b)
			}
		case bytes.Equal(p, delim):
			if v, err := decode(b); err == nil {
				br.Discard(len(delim))
				return v, nil
			}
		}
	}
}
