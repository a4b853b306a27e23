package installer

import (
	"encoding/xml"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testManifestData() ManifestData {
	return ManifestData{
		Game:        "Space",
		DisplayName: "Space Race",
		Description: DefaultDescription,
		Logo:        `Games\Space\Assets\Icons\Icon.png`,
		Logo150:     `Games\Space\Assets\Icons\Icon_150x150.png`,
		Logo44:      `Games\Space\Assets\Icons\Icon_44x44.png`,
		WinVersion:  "10.0.22621.0",
	}
}

func TestRenderManifest(t *testing.T) {
	out, err := RenderManifest(testManifestData())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, `<?xml version="1.0" encoding="utf-8"?>`+"\n<Package\n"))
	for _, want := range []string{
		`<Identity Name="SpencerSoft.Space" Version="1.0.0.0" Publisher="CN=SpencerSoft, O=SpencerSoft, L=Bountiful, S=Utah, C=UnitedStates" ProcessorArchitecture="x64" />`,
		`<DisplayName>Space</DisplayName>`,
		`<PublisherDisplayName>SpencerSoft</PublisherDisplayName>`,
		`<Description>This is a game developed by Spencer T. Parkin.</Description>`,
		`<Logo>Games\Space\Assets\Icons\Icon.png</Logo>`,
		`<TargetDeviceFamily Name="Windows.Desktop" MinVersion="10.0.22621.0" MaxVersionTested="10.0.22621.0" />`,
		`<rescap:Capability Name="runFullTrust"/>`,
		`<Application Id="Space" Executable="Space.exe"`,
		`<uap:VisualElements DisplayName="Space Race" Description="This is a game developed by Spencer T. Parkin."` + "\t" + `Square150x150Logo="Games\Space\Assets\Icons\Icon_150x150.png"`,
		`Square44x44Logo="Games\Space\Assets\Icons\Icon_44x44.png" BackgroundColor="snow" />`,
	} {
		assert.Contains(t, out, want)
	}
	assert.Equal(t, 1, strings.Count(out, "<rescap:Capability"))
}

func TestRenderManifestIsWellFormed(t *testing.T) {
	data := testManifestData()
	data.DisplayName = `Cats & "Dogs" <Deluxe>`
	data.Description = "Rock & roll"

	out, err := RenderManifest(data)
	require.NoError(t, err)
	assert.Contains(t, out, `DisplayName="Cats &amp; &#34;Dogs&#34; &lt;Deluxe&gt;"`)
	assert.Contains(t, out, `<Description>Rock &amp; roll</Description>`)

	dec := xml.NewDecoder(strings.NewReader(out))
	for {
		_, err := dec.Token()
		if err != nil {
			assert.EqualError(t, err, "EOF")
			break
		}
	}
}

func TestManifestExecutable(t *testing.T) {
	assert.Equal(t, "Space.exe", ManifestData{Game: "Space"}.Executable())
}
