// Package json decodes the two JSON input families into typed records.
//
// Song files hold exactly one JSON object. Log files are newline-delimited
// JSON, one event per line; blank lines are skipped. Numeric fields accept
// either JSON numbers or numeric strings (the log files carry userId as a
// string), and JSON null leaves optional fields unset.
//
// Every failure is reported as a *ParseError naming the file and, for log
// files, the 1-based line number.
package json

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"sparkify/internal/records"
)

// maxLineBytes bounds a single log line.
const maxLineBytes = 4 << 20

// ParseError describes why a file (or one line of it) could not be decoded.
type ParseError struct {
	Path string
	Line int // 0 for whole-file errors
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("json parser: %s:%d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("json parser: %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// IsParseError reports whether err is (or wraps) a *ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// number captures a JSON number, a numeric string, or null.
type number struct {
	raw string
	set bool
}

func (n *number) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*n = number{}
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		str = strings.TrimSpace(str)
		if str == "" {
			*n = number{}
			return nil
		}
		if _, err := strconv.ParseFloat(str, 64); err != nil {
			return fmt.Errorf("non-numeric value %q", str)
		}
		s = str
	}
	*n = number{raw: s, set: true}
	return nil
}

func (n number) toFloat() (float64, error) {
	return strconv.ParseFloat(n.raw, 64)
}

func (n number) toInt() (int64, error) {
	if v, err := strconv.ParseInt(n.raw, 10, 64); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(n.raw, 64)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || math.Abs(f) > 1<<62 {
		return 0, fmt.Errorf("%s is not an integer", n.raw)
	}
	return int64(f), nil
}

func (n number) floatPtr(field string) (*float64, error) {
	if !n.set {
		return nil, nil
	}
	v, err := n.toFloat()
	if err != nil {
		return nil, fmt.Errorf("field %s: %w", field, err)
	}
	return &v, nil
}

func (n number) intOr0(field string) (int64, error) {
	if !n.set {
		return 0, nil
	}
	v, err := n.toInt()
	if err != nil {
		return 0, fmt.Errorf("field %s: %w", field, err)
	}
	return v, nil
}

type rawSong struct {
	NumSongs        number `json:"num_songs"`
	ArtistID        string `json:"artist_id"`
	ArtistLatitude  number `json:"artist_latitude"`
	ArtistLongitude number `json:"artist_longitude"`
	ArtistLocation  string `json:"artist_location"`
	ArtistName      string `json:"artist_name"`
	SongID          string `json:"song_id"`
	Title           string `json:"title"`
	Duration        number `json:"duration"`
	Year            number `json:"year"`
}

type rawEvent struct {
	Artist        string `json:"artist"`
	Auth          string `json:"auth"`
	FirstName     string `json:"firstName"`
	Gender        string `json:"gender"`
	ItemInSession number `json:"itemInSession"`
	LastName      string `json:"lastName"`
	Length        number `json:"length"`
	Level         string `json:"level"`
	Location      string `json:"location"`
	Method        string `json:"method"`
	Page          string `json:"page"`
	Registration  number `json:"registration"`
	SessionID     number `json:"sessionId"`
	Song          string `json:"song"`
	Status        number `json:"status"`
	TS            number `json:"ts"`
	UserAgent     string `json:"userAgent"`
	UserID        number `json:"userId"`
}

func (r rawSong) toRecord() (records.Song, error) {
	if strings.TrimSpace(r.SongID) == "" {
		return records.Song{}, errors.New("missing required field song_id")
	}
	if strings.TrimSpace(r.ArtistID) == "" {
		return records.Song{}, errors.New("missing required field artist_id")
	}
	out := records.Song{
		SongID:         r.SongID,
		Title:          r.Title,
		ArtistID:       r.ArtistID,
		ArtistName:     r.ArtistName,
		ArtistLocation: r.ArtistLocation,
	}
	var err error
	n, err := r.NumSongs.intOr0("num_songs")
	if err != nil {
		return records.Song{}, err
	}
	out.NumSongs = int(n)
	y, err := r.Year.intOr0("year")
	if err != nil {
		return records.Song{}, err
	}
	out.Year = int(y)
	if r.Duration.set {
		if out.Duration, err = r.Duration.toFloat(); err != nil {
			return records.Song{}, fmt.Errorf("field duration: %w", err)
		}
	}
	if out.ArtistLatitude, err = r.ArtistLatitude.floatPtr("artist_latitude"); err != nil {
		return records.Song{}, err
	}
	if out.ArtistLongitude, err = r.ArtistLongitude.floatPtr("artist_longitude"); err != nil {
		return records.Song{}, err
	}
	return out, nil
}

func (r rawEvent) toRecord() (records.Event, error) {
	if strings.TrimSpace(r.Page) == "" {
		return records.Event{}, errors.New("missing required field page")
	}
	if !r.TS.set {
		return records.Event{}, errors.New("missing required field ts")
	}
	out := records.Event{
		Artist:    r.Artist,
		Auth:      r.Auth,
		FirstName: r.FirstName,
		Gender:    r.Gender,
		LastName:  r.LastName,
		Level:     r.Level,
		Location:  r.Location,
		Method:    r.Method,
		Page:      r.Page,
		Song:      r.Song,
		UserAgent: r.UserAgent,
	}
	var err error
	if out.TS, err = r.TS.toInt(); err != nil {
		return records.Event{}, fmt.Errorf("field ts: %w", err)
	}
	if out.SessionID, err = r.SessionID.intOr0("sessionId"); err != nil {
		return records.Event{}, err
	}
	item, err := r.ItemInSession.intOr0("itemInSession")
	if err != nil {
		return records.Event{}, err
	}
	out.ItemInSession = int(item)
	status, err := r.Status.intOr0("status")
	if err != nil {
		return records.Event{}, err
	}
	out.Status = int(status)
	if out.Length, err = r.Length.floatPtr("length"); err != nil {
		return records.Event{}, err
	}
	if out.Registration, err = r.Registration.floatPtr("registration"); err != nil {
		return records.Event{}, err
	}
	if r.UserID.set {
		id, err := r.UserID.toInt()
		if err != nil {
			return records.Event{}, fmt.Errorf("field userId: %w", err)
		}
		out.UserID = &id
	}
	if out.IsNextSong() && out.UserID == nil {
		return records.Event{}, errors.New("missing required field userId on NextSong event")
	}
	return out, nil
}

// DecodeSongFile decodes a song file holding exactly one JSON object.
func DecodeSongFile(name string, r io.Reader) (records.Song, error) {
	dec := json.NewDecoder(r)
	var raw rawSong
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("empty file")
		}
		return records.Song{}, &ParseError{Path: name, Err: fmt.Errorf("decode: %w", err)}
	}
	var extra json.RawMessage
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return records.Song{}, &ParseError{Path: name, Err: errors.New("expected exactly one JSON object")}
	}
	song, err := raw.toRecord()
	if err != nil {
		return records.Song{}, &ParseError{Path: name, Err: err}
	}
	return song, nil
}

// DecodeLogFile decodes a newline-delimited log file. A single bad line
// fails the whole file.
func DecodeLogFile(name string, r io.Reader) ([]records.Event, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var out []records.Event
	line := 0
	for sc.Scan() {
		line++
		b := bytes.TrimSpace(sc.Bytes())
		if len(b) == 0 {
			continue
		}
		var raw rawEvent
		if err := json.Unmarshal(b, &raw); err != nil {
			return nil, &ParseError{Path: name, Line: line, Err: fmt.Errorf("decode: %w", err)}
		}
		ev, err := raw.toRecord()
		if err != nil {
			return nil, &ParseError{Path: name, Line: line, Err: err}
		}
		out = append(out, ev)
	}
	if err := sc.Err(); err != nil {
		return nil, &ParseError{Path: name, Line: line + 1, Err: fmt.Errorf("read: %w", err)}
	}
	return out, nil
}

// DecodeFile decodes one file of the given kind into records.
func DecodeFile(kind records.Kind, name string, r io.Reader) ([]records.Record, error) {
	switch kind {
	case records.KindSong:
		s, err := DecodeSongFile(name, r)
		if err != nil {
			return nil, err
		}
		return []records.Record{s}, nil
	case records.KindLog:
		evs, err := DecodeLogFile(name, r)
		if err != nil {
			return nil, err
		}
		out := make([]records.Record, len(evs))
		for i, e := range evs {
			out[i] = e
		}
		return out, nil
	default:
		return nil, fmt.Errorf("json parser: unsupported record kind %q", kind)
	}
}

// Parser is the parser.Parser implementation for JSON inputs.
type Parser struct{}

// Parse implements parser.Parser.
func (Parser) Parse(kind records.Kind, name string, r io.Reader) ([]records.Record, error) {
	return DecodeFile(kind, name, r)
}
