package extraction

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
)

type GeminiSuite struct {
	suite.Suite
}

func TestGeminiSuite(t *testing.T) {
	suite.Run(t, new(GeminiSuite))
}

// TestParseModelJSON verifies tolerance for the reply shapes models produce.
func (s *GeminiSuite) TestParseModelJSON() {
	s.Run("plain object", func() {
		fields, err := parseModelJSON(`{"trackingNumber": "AB1234567890"}`)
		s.Require().NoError(err)
		s.Equal("AB1234567890", fields["trackingNumber"])
	})

	s.Run("fenced code block with language tag", func() {
		reply := "Here you go:\n```json\n{\"tracking number\": \"AB1234567890\", \"weight\": 3.2}\n```"
		fields, err := parseModelJSON(reply)
		s.Require().NoError(err)
		s.Equal("AB1234567890", fields["trackingNumber"])
		s.Equal("3.2", fields["weight"])
	})

	s.Run("object wrapped in prose", func() {
		fields, err := parseModelJSON(`The extracted data is {"carrier": "FedEx"} as requested.`)
		s.Require().NoError(err)
		s.Equal("FedEx", fields["carrier"])
	})

	s.Run("drops null values", func() {
		fields, err := parseModelJSON(`{"carrier": "FedEx", "weight": null}`)
		s.Require().NoError(err)
		s.NotContains(fields, "weight")
	})

	s.Run("errors on replies without an object", func() {
		_, err := parseModelJSON("I could not find any shipment data.")
		s.Error(err)
	})

	s.Run("errors when nothing usable remains", func() {
		_, err := parseModelJSON(`{"weight": null}`)
		s.Error(err)
	})
}

// TestBuildExtractionPrompt verifies the prompt names the known fields.
func (s *GeminiSuite) TestBuildExtractionPrompt() {
	prompt := buildExtractionPrompt("Tracking: AB1234567890", []string{
		"trackingNumber: Carrier tracking or consignment number",
	})
	s.Contains(prompt, "trackingNumber: Carrier tracking or consignment number")
	s.Contains(prompt, "Tracking: AB1234567890")
	s.True(strings.Contains(prompt, "JSON"))
}
