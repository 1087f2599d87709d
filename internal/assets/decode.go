package assets

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/font/opentype"
	_ "golang.org/x/image/webp"
)

// Decoder turns raw file bytes into a payload. Returning an *AssetError
// keeps its code; any other error is reported as a DecodeFailure.
type Decoder func(key string, data []byte) (any, error)

func defaultDecoders() map[Kind]Decoder {
	return map[Kind]Decoder{
		KindTexture: decodeTexture,
		KindSound:   decodeSound,
		KindBytes:   decodeBytes,
		KindFont:    decodeFont,
	}
}

func decodeTexture(key string, data []byte) (any, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return &Texture{Key: key, Image: img}, nil
}

func decodeSound(key string, data []byte) (any, error) {
	format, err := sniffSound(data)
	if err != nil {
		return nil, err
	}
	return &Sound{Key: key, Format: format, Data: data}, nil
}

func decodeBytes(_ string, data []byte) (any, error) {
	return data, nil
}

func decodeFont(key string, data []byte) (any, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, err
	}
	return &Font{Key: key, Parsed: f}, nil
}

func sniffSound(data []byte) (SoundFormat, error) {
	switch {
	case len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WAVE":
		return SoundWAV, nil
	case len(data) >= 4 && string(data[0:4]) == "OggS":
		return SoundOGG, nil
	case len(data) >= 3 && string(data[0:3]) == "ID3":
		return SoundMP3, nil
	case len(data) >= 2 && data[0] == 0xFF && data[1]&0xE0 == 0xE0:
		return SoundMP3, nil
	}
	return "", fmt.Errorf("unrecognized sound container")
}
