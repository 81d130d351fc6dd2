package record

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/klauspost/compress/zstd"
)

// Binary framing for snapshot files: a 4-byte magic, a format version byte,
// then the zstd-compressed record payload. Field order inside the payload is
// sorted by key so identical records encode to identical bytes.
const (
	codecMagic   = "TWR\x01"
	codecVersion = byte(1)

	maxStringLen = 1 << 20
	maxFields    = 1 << 16
	maxListLen   = 1 << 20
)

// Marshal encodes the record to the framed, compressed wire form.
func Marshal(r *Record) ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("marshal nil record")
	}

	var payload bytes.Buffer
	if err := encodeRecord(&payload, r); err != nil {
		return nil, err
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("init zstd writer: %w", err)
	}
	compressed := enc.EncodeAll(payload.Bytes(), nil)
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("close zstd writer: %w", err)
	}

	out := make([]byte, 0, len(codecMagic)+1+len(compressed))
	out = append(out, codecMagic...)
	out = append(out, codecVersion)
	out = append(out, compressed...)
	return out, nil
}

// Unmarshal decodes a framed, compressed record produced by Marshal.
func Unmarshal(data []byte) (*Record, error) {
	if len(data) < len(codecMagic)+1 {
		return nil, fmt.Errorf("record data too short: %d bytes", len(data))
	}
	if string(data[:len(codecMagic)]) != codecMagic {
		return nil, fmt.Errorf("bad record magic")
	}
	if v := data[len(codecMagic)]; v != codecVersion {
		return nil, fmt.Errorf("unsupported record version %d", v)
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("init zstd reader: %w", err)
	}
	defer dec.Close()

	payload, err := dec.DecodeAll(data[len(codecMagic)+1:], nil)
	if err != nil {
		return nil, fmt.Errorf("decompress record: %w", err)
	}

	buf := bytes.NewReader(payload)
	r, err := decodeRecord(buf)
	if err != nil {
		return nil, err
	}
	if buf.Len() != 0 {
		return nil, fmt.Errorf("trailing %d bytes after record", buf.Len())
	}
	return r, nil
}

func encodeRecord(w *bytes.Buffer, r *Record) error {
	keys := r.Keys()
	if len(keys) > maxFields {
		return fmt.Errorf("record has %d fields, max %d", len(keys), maxFields)
	}
	writeUint32(w, uint32(len(keys)))
	for _, k := range keys {
		e := r.fields[k]
		if err := writeString(w, k); err != nil {
			return err
		}
		w.WriteByte(byte(e.kind))
		switch e.kind {
		case KindInt32:
			writeUint32(w, uint32(e.v.(int32)))
		case KindInt64:
			writeUint64(w, uint64(e.v.(int64)))
		case KindFloat64:
			writeUint64(w, math.Float64bits(e.v.(float64)))
		case KindString:
			if err := writeString(w, e.v.(string)); err != nil {
				return err
			}
		case KindBool:
			if e.v.(bool) {
				w.WriteByte(1)
			} else {
				w.WriteByte(0)
			}
		case KindList:
			list := e.v.([]*Record)
			if len(list) > maxListLen {
				return fmt.Errorf("list %q has %d elements, max %d", k, len(list), maxListLen)
			}
			writeUint32(w, uint32(len(list)))
			for _, el := range list {
				if err := encodeRecord(w, el); err != nil {
					return err
				}
			}
		case KindRecord:
			if err := encodeRecord(w, e.v.(*Record)); err != nil {
				return err
			}
		default:
			return fmt.Errorf("field %q has unknown kind %d", k, e.kind)
		}
	}
	return nil
}

func decodeRecord(buf *bytes.Reader) (*Record, error) {
	n, err := readUint32(buf)
	if err != nil {
		return nil, fmt.Errorf("read field count: %w", err)
	}
	if n > maxFields {
		return nil, fmt.Errorf("record declares %d fields, max %d", n, maxFields)
	}

	r := New()
	for i := uint32(0); i < n; i++ {
		key, err := readString(buf)
		if err != nil {
			return nil, fmt.Errorf("read key: %w", err)
		}
		kb, err := buf.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("read kind for %q: %w", key, err)
		}
		switch Kind(kb) {
		case KindInt32:
			v, err := readUint32(buf)
			if err != nil {
				return nil, fmt.Errorf("read int32 %q: %w", key, err)
			}
			r.PutInt32(key, int32(v))
		case KindInt64:
			v, err := readUint64(buf)
			if err != nil {
				return nil, fmt.Errorf("read int64 %q: %w", key, err)
			}
			r.PutInt64(key, int64(v))
		case KindFloat64:
			v, err := readUint64(buf)
			if err != nil {
				return nil, fmt.Errorf("read float64 %q: %w", key, err)
			}
			r.PutFloat64(key, math.Float64frombits(v))
		case KindString:
			v, err := readString(buf)
			if err != nil {
				return nil, fmt.Errorf("read string %q: %w", key, err)
			}
			r.PutString(key, v)
		case KindBool:
			b, err := buf.ReadByte()
			if err != nil {
				return nil, fmt.Errorf("read bool %q: %w", key, err)
			}
			r.PutBool(key, b != 0)
		case KindList:
			ln, err := readUint32(buf)
			if err != nil {
				return nil, fmt.Errorf("read list length %q: %w", key, err)
			}
			if ln > maxListLen {
				return nil, fmt.Errorf("list %q declares %d elements, max %d", key, ln, maxListLen)
			}
			list := make([]*Record, 0, ln)
			for j := uint32(0); j < ln; j++ {
				el, err := decodeRecord(buf)
				if err != nil {
					return nil, fmt.Errorf("read list element %q[%d]: %w", key, j, err)
				}
				list = append(list, el)
			}
			r.PutList(key, list)
		case KindRecord:
			nested, err := decodeRecord(buf)
			if err != nil {
				return nil, fmt.Errorf("read nested record %q: %w", key, err)
			}
			r.PutRecord(key, nested)
		default:
			return nil, fmt.Errorf("field %q has unknown kind %d", key, kb)
		}
	}
	return r, nil
}

func writeUint32(w *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	w.Write(b[:])
}

func writeUint64(w *bytes.Buffer, v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	w.Write(b[:])
}

func writeString(w *bytes.Buffer, s string) error {
	if len(s) > maxStringLen {
		return fmt.Errorf("string of %d bytes exceeds max %d", len(s), maxStringLen)
	}
	writeUint32(w, uint32(len(s)))
	w.WriteString(s)
	return nil
}

func readUint32(buf *bytes.Reader) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(buf, b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b[:]), nil
}

func readUint64(buf *bytes.Reader) (uint64, error) {
	var b [8]byte
	if _, err := io.ReadFull(buf, b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b[:]), nil
}

func readString(buf *bytes.Reader) (string, error) {
	n, err := readUint32(buf)
	if err != nil {
		return "", err
	}
	if n > maxStringLen {
		return "", fmt.Errorf("string declares %d bytes, max %d", n, maxStringLen)
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(buf, b); err != nil {
		return "", err
	}
	return string(b), nil
}
