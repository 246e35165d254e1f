package tagtiles

import (
	"fmt"
	"hash"
	"hash/fnv"
	"io"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
	"github.com/protomaps/go-pmtiles/pmtiles"
)

type offsetLen struct {
	offset uint64
	length uint32
}

// pmtilesOutputter packs the pyramid into a single .pmtiles archive.
// PNG tiles are stored as-is (the format is already compressed) and
// deduplicated by content hash, which collapses the many identical
// background-only tiles of sparse zoom levels.
type pmtilesOutputter struct {
	hashFunc  hash.Hash
	offsetMap map[string]offsetLen
	tileData  *os.File
	entries   []pmtiles.EntryV3
	header    pmtiles.HeaderV3
	outFile   *os.File
}

func NewPmtilesOutputter(dsn string) (*pmtilesOutputter, error) {
	tmpFile, err := os.CreateTemp("", "pmtiles-tiledata")
	if err != nil {
		return nil, fmt.Errorf("error creating temp file: %w", err)
	}

	outFile, err := os.Create(dsn)
	if err != nil {
		return nil, fmt.Errorf("error creating pmtiles output file: %w", err)
	}

	header := pmtiles.HeaderV3{}
	header.TileType = pmtiles.Png
	header.TileCompression = pmtiles.NoCompression

	return &pmtilesOutputter{
		outFile:   outFile,
		hashFunc:  fnv.New128a(),
		tileData:  tmpFile,
		offsetMap: make(map[string]offsetLen),
		entries:   make([]pmtiles.EntryV3, 0),
		header:    header,
	}, nil
}

func (p *pmtilesOutputter) CreateTiles() error {
	return nil
}

func (p *pmtilesOutputter) AssignSpatialMetadata(bound orb.Bound, minZoom, maxZoom maptile.Zoom) error {
	p.header.MinZoom = uint8(minZoom)
	p.header.MaxZoom = uint8(maxZoom)
	return nil
}

func (p *pmtilesOutputter) Save(tile maptile.Tile, data []byte) error {
	// pmtiles addresses tiles top-to-bottom; the pyramid counts rows
	// from the world origin upward.
	flippedY := uint32(1)<<uint(tile.Z) - 1 - tile.Y
	id := pmtiles.ZxyToID(uint8(tile.Z), tile.X, flippedY)

	// Hash the tile data to use as a key for dedupe
	p.hashFunc.Reset()
	p.hashFunc.Write(data)
	sumString := string(p.hashFunc.Sum(nil))
	found, ok := p.offsetMap[sumString]

	// New content gets appended to the temp file; repeats reuse the
	// stored offset+length.
	if !ok {
		offset, err := p.tileData.Seek(0, io.SeekEnd)
		if err != nil {
			return err
		}

		bytesWritten, err := p.tileData.Write(data)
		if err != nil {
			return err
		}

		found = offsetLen{
			offset: uint64(offset),
			length: uint32(bytesWritten),
		}
		p.offsetMap[sumString] = found
	}

	p.entries = append(p.entries, pmtiles.EntryV3{
		TileID:    id,
		Offset:    found.offset,
		Length:    found.length,
		RunLength: 1,
	})

	return nil
}

func (p *pmtilesOutputter) Close() error {
	defer os.Remove(p.tileData.Name())
	defer p.tileData.Close()
	defer p.outFile.Close()

	p.header.AddressedTilesCount = uint64(len(p.entries))
	p.header.TileEntriesCount = uint64(len(p.entries))
	p.header.TileContentsCount = uint64(len(p.offsetMap))

	rootBytes, leavesBytes, _ := optimizeDirectories(p.entries, 16384-pmtiles.HeaderV3LenBytes, pmtiles.Gzip)

	jsonMetadata := map[string]interface{}{
		"name":   "tagtiles",
		"format": "png",
	}

	metadataBytes, err := pmtiles.SerializeMetadata(jsonMetadata, pmtiles.Gzip)
	if err != nil {
		return fmt.Errorf("error serializing pmtiles metadata: %w", err)
	}

	offset, err := p.tileData.Seek(0, io.SeekEnd)
	if err != nil {
		return err
	}

	p.header.InternalCompression = pmtiles.Gzip
	p.header.RootOffset = pmtiles.HeaderV3LenBytes
	p.header.RootLength = uint64(len(rootBytes))
	p.header.MetadataOffset = p.header.RootOffset + p.header.RootLength
	p.header.MetadataLength = uint64(len(metadataBytes))
	p.header.LeafDirectoryOffset = p.header.MetadataOffset + p.header.MetadataLength
	p.header.LeafDirectoryLength = uint64(len(leavesBytes))
	p.header.TileDataOffset = p.header.LeafDirectoryOffset + p.header.LeafDirectoryLength
	p.header.TileDataLength = uint64(offset)

	headerBytes := pmtiles.SerializeHeader(p.header)

	if _, err := p.outFile.Write(headerBytes); err != nil {
		return fmt.Errorf("error writing pmtiles header: %w", err)
	}
	if _, err := p.outFile.Write(rootBytes); err != nil {
		return fmt.Errorf("error writing pmtiles root directory: %w", err)
	}
	if _, err := p.outFile.Write(metadataBytes); err != nil {
		return fmt.Errorf("error writing pmtiles metadata: %w", err)
	}
	if _, err := p.outFile.Write(leavesBytes); err != nil {
		return fmt.Errorf("error writing pmtiles leaf directory: %w", err)
	}

	if _, err := p.tileData.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("error seeking to start of tile data: %w", err)
	}
	if _, err := io.Copy(p.outFile, p.tileData); err != nil {
		return fmt.Errorf("error copying tile data to outfile: %w", err)
	}

	return nil
}

// optimizeDirectories serializes the entry list into a root directory
// that fits targetRootLen, spilling into leaf directories when needed.
func optimizeDirectories(entries []pmtiles.EntryV3, targetRootLen int, compression pmtiles.Compression) ([]byte, []byte, int) {
	if len(entries) < 16384 {
		testRootBytes := pmtiles.SerializeEntries(entries, compression)
		if len(testRootBytes) <= targetRootLen {
			return testRootBytes, make([]byte, 0), 0
		}
	}

	// Iterative method, increasing the leaf directory size until the
	// root fits.
	leafSize := float32(len(entries)) / 3500
	if leafSize < 4096 {
		leafSize = 4096
	}

	for {
		rootBytes, leavesBytes, numLeaves := buildRootsLeaves(entries, int(leafSize), compression)
		if len(rootBytes) <= targetRootLen {
			return rootBytes, leavesBytes, numLeaves
		}
		leafSize *= 1.2
	}
}

func buildRootsLeaves(entries []pmtiles.EntryV3, leafSize int, compression pmtiles.Compression) ([]byte, []byte, int) {
	rootEntries := make([]pmtiles.EntryV3, 0)
	leavesBytes := make([]byte, 0)
	numLeaves := 0

	for i := 0; i < len(entries); i += leafSize {
		numLeaves++
		end := i + leafSize
		if end > len(entries) {
			end = len(entries)
		}
		serialized := pmtiles.SerializeEntries(entries[i:end], compression)

		rootEntries = append(rootEntries, pmtiles.EntryV3{
			TileID:    entries[i].TileID,
			Offset:    uint64(len(leavesBytes)),
			Length:    uint32(len(serialized)),
			RunLength: 0,
		})
		leavesBytes = append(leavesBytes, serialized...)
	}

	rootBytes := pmtiles.SerializeEntries(rootEntries, compression)
	return rootBytes, leavesBytes, numLeaves
}
