// Package store implements the binary population blob format from
// spec.md §6 (C8 "save(path)/load", C9 persistence): a fixed header
// followed by one variable-length record per chromosome, little
// endian throughout. No third-party serialization library in the
// retrieved corpus targets a bespoke fixed-layout binary format like
// this one, so encoding/binary is used directly, the same way the
// teacher leaves wire-format concerns to stdlib where nothing in its
// own dependency set covers them.
package store

import (
	"encoding/binary"
	"io"

	"github.com/clustersim/simga/pkg/common/types"
	"github.com/clustersim/simga/pkg/simerrors"
)

// Magic is the 4-byte tag at the start of every population blob.
const Magic = "GAP1"

// ChromosomeRecord is one chromosome's on-disk representation.
type ChromosomeRecord struct {
	Age            uint32
	Type           types.ChromosomeType
	FitnessPresent bool
	Fitness        float64
	Genes          []float64
}

var typeToByte = map[types.ChromosomeType]uint8{
	types.ChromosomeInitial:   0,
	types.ChromosomeCrossover: 1,
	types.ChromosomeMutation:  2,
}

var byteToType = map[uint8]types.ChromosomeType{
	0: types.ChromosomeInitial,
	1: types.ChromosomeCrossover,
	2: types.ChromosomeMutation,
}

// Save writes the population blob header and one record per
// chromosome. Every record's Genes must have length geneCount.
func Save(w io.Writer, geneCount int, records []ChromosomeRecord) error {
	if _, err := w.Write([]byte(Magic)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(records))); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(geneCount)); err != nil {
		return err
	}

	for _, rec := range records {
		if len(rec.Genes) != geneCount {
			return &simerrors.IncompatiblePopulation{Reason: "chromosome gene count does not match blob gene count"}
		}
		if err := binary.Write(w, binary.LittleEndian, rec.Age); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, typeToByte[rec.Type]); err != nil {
			return err
		}
		var present uint8
		if rec.FitnessPresent {
			present = 1
		}
		if err := binary.Write(w, binary.LittleEndian, present); err != nil {
			return err
		}
		if rec.FitnessPresent {
			if err := binary.Write(w, binary.LittleEndian, rec.Fitness); err != nil {
				return err
			}
		}
		if err := binary.Write(w, binary.LittleEndian, rec.Genes); err != nil {
			return err
		}
	}
	return nil
}

// Load reads a population blob, returning the gene count encoded in
// its header and the decoded records. A bad magic is reported as
// simerrors.IncompatiblePopulation.
func Load(r io.Reader) (geneCount int, records []ChromosomeRecord, err error) {
	magic := make([]byte, len(Magic))
	if _, err := io.ReadFull(r, magic); err != nil {
		return 0, nil, err
	}
	if string(magic) != Magic {
		return 0, nil, &simerrors.IncompatiblePopulation{Reason: "bad magic header"}
	}

	var count, genes uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return 0, nil, err
	}
	if err := binary.Read(r, binary.LittleEndian, &genes); err != nil {
		return 0, nil, err
	}

	records = make([]ChromosomeRecord, 0, count)
	for i := uint32(0); i < count; i++ {
		var rec ChromosomeRecord
		if err := binary.Read(r, binary.LittleEndian, &rec.Age); err != nil {
			return 0, nil, err
		}
		var typ, present uint8
		if err := binary.Read(r, binary.LittleEndian, &typ); err != nil {
			return 0, nil, err
		}
		rec.Type = byteToType[typ]
		if err := binary.Read(r, binary.LittleEndian, &present); err != nil {
			return 0, nil, err
		}
		rec.FitnessPresent = present == 1
		if rec.FitnessPresent {
			if err := binary.Read(r, binary.LittleEndian, &rec.Fitness); err != nil {
				return 0, nil, err
			}
		}
		rec.Genes = make([]float64, genes)
		if err := binary.Read(r, binary.LittleEndian, &rec.Genes); err != nil {
			return 0, nil, err
		}
		records = append(records, rec)
	}

	return int(genes), records, nil
}
