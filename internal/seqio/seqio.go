/*
 * Copyright 2024 The Pique Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package seqio reads FASTQ and FASTA sequencing reads, auto-detecting the
// format from the first non-whitespace byte of the stream. A record with a
// missing field is dropped and counted rather than surfaced as an error,
// matching the ingest driver's tolerance for imperfect input.
package seqio

import (
	"bufio"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// RecordReader yields one read's sequence bytes at a time. Next returns
// ok=false once the stream is exhausted; a malformed record is skipped
// internally and does not appear as a false "ok" with an empty sequence.
type RecordReader interface {
	// Next returns the next record's raw base sequence (upper/lower-case
	// IUPAC letters, not yet 2-bit encoded). ok is false at end of
	// stream. Skipped counts how many malformed records were dropped
	// before this one was found.
	Next() (seq []byte, ok bool, err error)
	// Skipped returns the running total of malformed records dropped so
	// far.
	Skipped() int
}

// NewAutoReader sniffs the first non-whitespace byte of r to choose between
// FASTQ ('@') and FASTA ('>') framing.
func NewAutoReader(r io.Reader) (RecordReader, error) {
	br := bufio.NewReaderSize(r, 64*1024)
	for {
		b, err := br.Peek(1)
		if err != nil {
			if err == io.EOF {
				return &fastaReader{br: br}, nil
			}
			return nil, errors.Wrap(err, "seqio: sniffing input format")
		}
		if b[0] == '\n' || b[0] == '\r' || b[0] == ' ' || b[0] == '\t' {
			if _, err := br.ReadByte(); err != nil {
				return nil, errors.Wrap(err, "seqio: sniffing input format")
			}
			continue
		}
		switch b[0] {
		case '@':
			return &fastqReader{br: br}, nil
		case '>':
			return &fastaReader{br: br}, nil
		default:
			return nil, errors.Errorf("seqio: unrecognized input format (leading byte %q)", b[0])
		}
	}
}

type fastaReader struct {
	br      *bufio.Reader
	skipped int
	pending string // a header line read while scanning for the next record
}

func (f *fastaReader) Skipped() int { return f.skipped }

func (f *fastaReader) Next() ([]byte, bool, error) {
	for {
		header := f.pending
		f.pending = ""
		if header == "" {
			line, err := readTrimmedLine(f.br)
			if err == io.EOF {
				return nil, false, nil
			}
			if err != nil {
				return nil, false, errors.Wrap(err, "seqio: reading fasta header")
			}
			if line == "" {
				continue
			}
			header = line
		}
		if !strings.HasPrefix(header, ">") {
			f.skipped++
			continue
		}

		var seq strings.Builder
		for {
			line, err := readTrimmedLine(f.br)
			if err == io.EOF {
				break
			}
			if err != nil {
				return nil, false, errors.Wrap(err, "seqio: reading fasta sequence")
			}
			if strings.HasPrefix(line, ">") {
				f.pending = line
				break
			}
			seq.WriteString(line)
		}
		if seq.Len() == 0 {
			f.skipped++
			continue
		}
		return []byte(seq.String()), true, nil
	}
}

type fastqReader struct {
	br      *bufio.Reader
	skipped int
}

func (f *fastqReader) Skipped() int { return f.skipped }

func (f *fastqReader) Next() ([]byte, bool, error) {
	for {
		header, err := readTrimmedLine(f.br)
		if err == io.EOF {
			return nil, false, nil
		}
		if err != nil {
			return nil, false, errors.Wrap(err, "seqio: reading fastq header")
		}
		if header == "" {
			continue
		}
		if !strings.HasPrefix(header, "@") {
			f.skipped++
			continue
		}

		seq, err := readTrimmedLine(f.br)
		if err != nil {
			return nil, false, nil // truncated record at EOF: drop silently
		}
		plus, err := readTrimmedLine(f.br)
		if err != nil || !strings.HasPrefix(plus, "+") {
			f.skipped++
			continue
		}
		qual, err := readTrimmedLine(f.br)
		if err != nil {
			f.skipped++
			continue
		}
		if len(qual) != len(seq) || seq == "" {
			f.skipped++
			continue
		}
		return []byte(seq), true, nil
	}
}

func readTrimmedLine(br *bufio.Reader) (string, error) {
	line, err := br.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" && err == io.EOF {
		return "", io.EOF
	}
	return line, nil
}
