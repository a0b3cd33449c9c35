package config

import (
	"encoding/json"
	"os"

	"github.com/joho/godotenv"
)

// EmailEnv names the variable that supplies the aligner contact email when
// neither config.json nor the -email flag sets one.
const EmailEnv = "SPIKEALIGN_EMAIL"

type Config struct {
	InputDir            string `json:"input_dir"`
	Reference           string `json:"reference"`
	WorkDir             string `json:"work_dir"`
	LogFile             string `json:"log_file"`
	LogLevel            string `json:"log_level"`
	Decompressor        string `json:"decompressor"`
	DecompressCommand   string `json:"decompress_command"`
	Layout              string `json:"layout"`
	Aligner             string `json:"aligner"`
	AlignerCommand      string `json:"aligner_command"`
	Email               string `json:"email"`
	EBIBaseURL          string `json:"ebi_base_url"`
	EBIPollSeconds      int64  `json:"ebi_poll_seconds"`
	AlignTimeoutSeconds int64  `json:"align_timeout_seconds"`
	KeepLastRecord      bool   `json:"keep_last_record"`
	FailFast            bool   `json:"fail_fast"`
	Limit               int    `json:"limit"`
}

// Defaults run unxz per file, resolve inputs by name and align with the
// wateraligner.py client against spike.txt.
func Defaults() Config {
	return Config{
		Reference:           "spike.txt",
		WorkDir:             ".",
		LogLevel:            "info",
		Decompressor:        "command",
		DecompressCommand:   "unxz",
		Layout:              "named",
		Aligner:             "exec",
		AlignerCommand:      "python wateraligner.py --email {email} --stype dna --asequence {reference} --bsequence {query} --outfile {outfile}",
		EBIBaseURL:          "https://www.ebi.ac.uk/Tools/services/rest/emboss_water",
		EBIPollSeconds:      5,
		AlignTimeoutSeconds: 600,
	}
}

// LoadConfig loads a JSON config from the given path. If path is empty, looks for ./config.json.
// Values present in the file override Defaults; a missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	c := Defaults()
	if path == "" {
		path = "config.json"
	}
	f, err := os.Open(path)
	if err != nil {
		// not fatal: return defaults
		return &c, nil
	}
	defer f.Close()
	dec := json.NewDecoder(f)
	if err := dec.Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadEnv reads KEY=value pairs from envFile (".env" when empty) into the
// process environment without overriding variables that are already set,
// then fills Email from EmailEnv if it is still empty. A missing file is
// ignored.
func (c *Config) LoadEnv(envFile string) error {
	if envFile == "" {
		envFile = ".env"
	}
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return err
		}
	}
	if c.Email == "" {
		c.Email = os.Getenv(EmailEnv)
	}
	return nil
}
