package report

// Report is the JSON record of one conversion run.
type Report struct {
	Version     int     `json:"version"`
	GeneratedAt string  `json:"generated_at"`
	Source      string  `json:"source"`
	Recursive   bool    `json:"recursive"`
	DestDir     string  `json:"dest_dir"` // absolute; entry outputs are relative to it
	Encoder     string  `json:"encoder,omitempty"`
	Options     Options `json:"options"`
	Entries     []Entry `json:"entries"`
	Stats       Stats   `json:"stats"`
}

// Options mirrors the conversion options of the run.
type Options struct {
	Quality   int    `json:"quality"`
	Speed     int    `json:"speed"`
	Lossless  bool   `json:"lossless"`
	KeepEXIF  bool   `json:"keep_exif"`
	Overwrite bool   `json:"overwrite"`
	Prefix    string `json:"prefix,omitempty"`
	Workers   int    `json:"workers"`
}

// Entry is the outcome for one source image.
type Entry struct {
	Source     string `json:"source"`
	Output     string `json:"output,omitempty"` // relative to dest_dir, forward slashes
	OK         bool   `json:"ok"`
	Stage      string `json:"stage,omitempty"` // failing step: decode, encode, canceled
	Reason     string `json:"reason,omitempty"`
	Format     string `json:"format,omitempty"` // source format
	Mode       string `json:"mode,omitempty"`   // RGB or RGBA
	InputSize  int64  `json:"input_size"`
	OutputSize int64  `json:"output_size,omitempty"`
	Hash       string `json:"hash,omitempty"` // xxhash64 of the output, 16 hex chars
	EXIF       bool   `json:"exif,omitempty"`
	ICC        bool   `json:"icc,omitempty"`
}

// Stats aggregates run metrics.
type Stats struct {
	Attempted        int   `json:"attempted"`
	Succeeded        int   `json:"succeeded"`
	Failed           int   `json:"failed"`
	TotalInputBytes  int64 `json:"total_input_bytes"`  // successful entries only
	TotalOutputBytes int64 `json:"total_output_bytes"`
}

// SupportedVersion is the current schema version.
const SupportedVersion = 1

// FileName is the default report file name.
const FileName = "avifconv.report.json"
