package extractor

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Vocabulary is the fixed term set the deterministic strategy matches
// against. Technical terms are rendered into results with the casing given
// here, regardless of how they appear in the input.
type Vocabulary struct {
	Technical []string `yaml:"technical"`
	Soft      []string `yaml:"soft"`
}

// DefaultVocabulary returns the built-in term set.
func DefaultVocabulary() (vocab Vocabulary) {
	vocab = Vocabulary{
		Technical: []string{
			// Languages
			"Python", "JavaScript", "Java", "C++", "C#", "TypeScript",
			"Go", "Golang", "Rust", "Ruby", "PHP", "Swift", "Kotlin",
			"Scala", "R", "MATLAB", "Dart", "Lua", "C",

			// Frameworks
			"React", "Vue", "Angular", "Django", "Flask", "FastAPI",
			"Spring", "Node.js", "Express", "Next.js", "Laravel", "Rails",
			"Tokio", "Actix",

			// Databases and brokers
			"PostgreSQL", "MySQL", "MongoDB", "Redis", "Elasticsearch",
			"ClickHouse", "Kafka", "RabbitMQ",

			// DevOps
			"Docker", "Kubernetes", "Git", "GitLab", "GitHub", "Jenkins",
			"CI/CD", "AWS", "Azure", "GCP", "Terraform", "Ansible", "Linux",

			// Robotics and embedded
			"MAVSDK", "OpenCV", "ArduPilot", "Raspberry Pi", "Orange Pi",
			"Nvidia Jetson", "Jetson",

			// Design
			"AutoCAD", "Photoshop", "Illustrator", "Figma", "Sketch",
			"Adobe XD",

			// Other
			"REST API", "GraphQL", "Microservices", "Machine Learning",
			"Neural Networks", "Cryptography",
		},
		Soft: []string{
			"communication", "teamwork", "leadership", "problem solving",
			"mentoring", "collaboration", "time management",
			"parallel computing", "asynchronous programming",
		},
	}
	return vocab
}

// LoadVocabulary reads a vocabulary override from a YAML file.
func LoadVocabulary(path string) (vocab Vocabulary, err error) {
	var data []byte
	data, err = os.ReadFile(path)
	if err != nil {
		err = errors.Wrapf(err, "failed to read vocabulary file: %s", path)
		return vocab, err
	}

	err = yaml.Unmarshal(data, &vocab)
	if err != nil {
		err = errors.Wrapf(err, "failed to parse vocabulary file: %s", path)
		return vocab, err
	}

	if len(vocab.Technical) == 0 {
		err = errors.Errorf("vocabulary file has no technical terms: %s", path)
		return vocab, err
	}

	return vocab, err
}
