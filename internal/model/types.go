package model

// Supported persistence envelope versions. Stored records carrying other
// versions are rejected at decode time.
const (
	SupportedSchemaVersion = 1
	SupportedCodecVersion  = 1
)

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// CurrentVersion stamps a record with the versions this build writes.
func CurrentVersion() VersionedRecord {
	return VersionedRecord{
		SchemaVersion: SupportedSchemaVersion,
		CodecVersion:  SupportedCodecVersion,
	}
}

// Rating is the user's verdict on a genome's rendered attractor.
type Rating string

const (
	RatingNone Rating = ""
	RatingUp   Rating = "up"
	RatingDown Rating = "down"
)

// Transform count bounds enforced by every operator that produces a genome.
const (
	MinTransforms = 2
	MaxTransforms = 8
)

// Transform is one weighted affine map of an iterated function system.
// M holds the 3x3 linear part in row-major order; Probability is an
// unnormalized selection weight, not a true probability.
type Transform struct {
	M           [9]float64 `json:"m"`
	TX          float64    `json:"tx"`
	TY          float64    `json:"ty"`
	TZ          float64    `json:"tz"`
	Probability float64    `json:"probability"`
	Color       [3]uint8   `json:"color"`
}

// Apply maps a point through the affine transform.
func (t Transform) Apply(x, y, z float64) (float64, float64, float64) {
	return t.M[0]*x + t.M[1]*y + t.M[2]*z + t.TX,
		t.M[3]*x + t.M[4]*y + t.M[5]*z + t.TY,
		t.M[6]*x + t.M[7]*y + t.M[8]*z + t.TZ
}

type Genome struct {
	VersionedRecord
	ID         string      `json:"id"`
	Transforms []Transform `json:"transforms"`
	Generation int         `json:"generation"`
	ParentIDs  []string    `json:"parent_ids,omitempty"`
	Rating     Rating      `json:"rating,omitempty"`
}

type Population struct {
	VersionedRecord
	ID         string   `json:"id"`
	Genomes    []Genome `json:"genomes"`
	Generation int      `json:"generation"`
}

// GenerationDiagnostics summarizes one evolved generation for history records.
type GenerationDiagnostics struct {
	Generation     int     `json:"generation"`
	BestFitness    float64 `json:"best_fitness"`
	MeanFitness    float64 `json:"mean_fitness"`
	MinFitness     float64 `json:"min_fitness"`
	RatedUp        int     `json:"rated_up"`
	RatedDown      int     `json:"rated_down"`
	MeanTransforms float64 `json:"mean_transforms"`
}
