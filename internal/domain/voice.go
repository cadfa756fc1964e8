package domain

import "fmt"

// DefaultVoice is used when the remote service does not name one.
const DefaultVoice = "Sarah"

var voiceIDs = map[string]string{
	"Rachel":    "21m00Tcm4TlvDq8ikWAM",
	"Domi":      "AZnzlk1XvdvUeBnXmlld",
	"Bella":     "EXAVITQu4vr4xnSDxMaL",
	"Antoni":    "ErXwobaYiN019PkySvjV",
	"Elli":      "MF3mGyEYCl7XYWbV9V6O",
	"Josh":      "TxGEqnHWrfWFTfGW9XjX",
	"Arnold":    "VR6AewLTigWG4xSOukaG",
	"Clyde":     "2EiwWnXFnvU5JabPnv8n",
	"Charlotte": "XB0fDUnXU5powFXDhCwa",
	"Sarah":     "EXAVITQu4vr4xnSDxMaL",
	"Laura":     "FGY2WhTYpPnrIDTdsKH5",
	"Brian":     "nPczCjzI2devNBz1zQrb",
	"Bill":      "pqHfZKP75CvOlQylNhV4",
}

// VoiceID resolves a voice name. Names are case-sensitive.
func VoiceID(name string) (string, error) {
	id, ok := voiceIDs[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownVoice, name)
	}
	return id, nil
}

func VoiceNames() []string {
	names := make([]string, 0, len(voiceIDs))
	for name := range voiceIDs {
		names = append(names, name)
	}
	return names
}
