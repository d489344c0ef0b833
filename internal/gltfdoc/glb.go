package gltfdoc

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// GLB container constants.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#glb-file-format-specification
const (
	glbMagic     = 0x46546C67 // "glTF"
	glbVersion   = 2
	glbChunkJSON = 0x4E4F534A // "JSON"
	glbChunkBIN  = 0x004E4942 // "BIN\0"
	glbHeaderLen = 12
	glbChunkLen  = 8
)

var (
	errInvalidGLBMagic   = errors.New("invalid GLB magic number")
	errInvalidGLBVersion = errors.New("invalid GLB version: must be 2")
	errMissingJSONChunk  = errors.New("GLB file missing JSON chunk")
)

type glbHeader struct {
	Magic   uint32
	Version uint32
	Length  uint32
}

type glbChunkHeader struct {
	ChunkLength uint32
	ChunkType   uint32
}

// readGLB splits a GLB container into its JSON and BIN chunks.
func readGLB(data []byte) (jsonData, binData []byte, err error) {
	if len(data) < glbHeaderLen {
		return nil, nil, errors.New("GLB file too small")
	}

	r := bytes.NewReader(data)

	var header glbHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, nil, fmt.Errorf("failed to read GLB header: %w", err)
	}
	if header.Magic != glbMagic {
		return nil, nil, errInvalidGLBMagic
	}
	if header.Version != glbVersion {
		return nil, nil, errInvalidGLBVersion
	}

	for {
		var chunk glbChunkHeader
		if err := binary.Read(r, binary.LittleEndian, &chunk); err != nil {
			if err == io.EOF {
				break
			}
			return nil, nil, fmt.Errorf("failed to read chunk header: %w", err)
		}

		chunkData := make([]byte, chunk.ChunkLength)
		if _, err := io.ReadFull(r, chunkData); err != nil {
			return nil, nil, fmt.Errorf("failed to read chunk data: %w", err)
		}

		switch chunk.ChunkType {
		case glbChunkJSON:
			jsonData = chunkData
		case glbChunkBIN:
			binData = chunkData
		}
	}

	if jsonData == nil {
		return nil, nil, errMissingJSONChunk
	}
	return jsonData, binData, nil
}

// writeGLB builds a GLB container. Chunks are padded to 4 bytes, JSON with
// spaces and BIN with zeros.
func writeGLB(jsonData, binData []byte) []byte {
	jsonData = pad4(jsonData, ' ')
	total := glbHeaderLen + glbChunkLen + len(jsonData)
	if binData != nil {
		binData = pad4(binData, 0)
		total += glbChunkLen + len(binData)
	}

	var buf bytes.Buffer
	buf.Grow(total)
	// bytes.Buffer writes never fail
	_ = binary.Write(&buf, binary.LittleEndian, glbHeader{Magic: glbMagic, Version: glbVersion, Length: uint32(total)})
	_ = binary.Write(&buf, binary.LittleEndian, glbChunkHeader{ChunkLength: uint32(len(jsonData)), ChunkType: glbChunkJSON})
	buf.Write(jsonData)
	if binData != nil {
		_ = binary.Write(&buf, binary.LittleEndian, glbChunkHeader{ChunkLength: uint32(len(binData)), ChunkType: glbChunkBIN})
		buf.Write(binData)
	}
	return buf.Bytes()
}

func pad4(b []byte, fill byte) []byte {
	n := (4 - len(b)%4) % 4
	if n == 0 {
		return b
	}
	out := make([]byte, len(b), len(b)+n)
	copy(out, b)
	for i := 0; i < n; i++ {
		out = append(out, fill)
	}
	return out
}
