// Package codec holds the fixed layout helpers shared by the account decoders.
package codec

import (
	"bytes"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

func WriteKeys(encoder *bin.Encoder, keys ...solana.PublicKey) error {
	for _, key := range keys {
		if err := encoder.WriteBytes(key[:], false); err != nil {
			return err
		}
	}
	return nil
}

func ReadKeys(decoder *bin.Decoder, keys ...*solana.PublicKey) error {
	for _, key := range keys {
		data, err := decoder.ReadNBytes(solana.PublicKeyLength)
		if err != nil {
			return err
		}
		*key = solana.PublicKeyFromBytes(data)
	}
	return nil
}

func WriteBool(encoder *bin.Encoder, b bool) error {
	var v uint8
	if b {
		v = 1
	}
	return encoder.WriteUint8(v)
}

// ReadBool accepts only 0 and 1.
func ReadBool(decoder *bin.Decoder) (bool, error) {
	b, err := decoder.ReadUint8()
	if err != nil {
		return false, err
	}
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}
	return false, fmt.Errorf("invalid bool byte %d", b)
}

// Marshal encodes v and checks the result is exactly size bytes.
func Marshal(v bin.BinaryMarshaler, size int) ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, size))
	if err := v.MarshalWithEncoder(bin.NewBinEncoder(buf)); err != nil {
		return nil, err
	}
	if buf.Len() != size {
		return nil, fmt.Errorf("encoded %d bytes, expected %d", buf.Len(), size)
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes data into v, which must consume all of it.
func Unmarshal(data []byte, v bin.BinaryUnmarshaler) error {
	decoder := bin.NewBinDecoder(data)
	if err := v.UnmarshalWithDecoder(decoder); err != nil {
		return err
	}
	if decoder.Remaining() != 0 {
		return fmt.Errorf("%d trailing bytes", decoder.Remaining())
	}
	return nil
}
