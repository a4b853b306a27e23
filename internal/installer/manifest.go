package installer

import (
	"bytes"
	"encoding/xml"
	"strings"
	"text/template"
)

// Package identity constants.
const (
	Publisher          = "SpencerSoft"
	PublisherIdentity  = "CN=SpencerSoft, O=SpencerSoft, L=Bountiful, S=Utah, C=UnitedStates"
	DefaultDescription = "This is a game developed by Spencer T. Parkin."
	ProcessorArch      = "x64"
	DeviceFamily       = "Windows.Desktop"
	BackgroundColor    = "snow"
)

// ManifestData fills the AppX manifest template.
type ManifestData struct {
	Game        string // Identity suffix and application id
	DisplayName string
	Description string
	Logo        string // Relative to the package root, backslash separated
	Logo150     string
	Logo44      string
	WinVersion  string // Min and max tested device family version
}

// Executable returns the packaged executable name.
func (d ManifestData) Executable() string {
	return d.Game + ".exe"
}

var manifestTemplate = template.Must(template.New("manifest").Funcs(template.FuncMap{
	"x": escapeXML,
}).Parse(`<?xml version="1.0" encoding="utf-8"?>
<Package
  xmlns="http://schemas.microsoft.com/appx/manifest/foundation/windows10"
  xmlns:uap="http://schemas.microsoft.com/appx/manifest/uap/windows10"
  xmlns:uap10="http://schemas.microsoft.com/appx/manifest/uap/windows10/10"
  xmlns:rescap="http://schemas.microsoft.com/appx/manifest/foundation/windows10/restrictedcapabilities">
  <Identity Name="SpencerSoft.{{x .Game}}" Version="1.0.0.0" Publisher="` + PublisherIdentity + `" ProcessorArchitecture="` + ProcessorArch + `" />
  <Properties>
    <DisplayName>{{x .Game}}</DisplayName>
    <PublisherDisplayName>` + Publisher + `</PublisherDisplayName>
    <Description>{{x .Description}}</Description>
    <Logo>{{x .Logo}}</Logo>
  </Properties>
  <Resources>
    <Resource Language="en-us" />
  </Resources>
  <Dependencies>
    <TargetDeviceFamily Name="` + DeviceFamily + `" MinVersion="{{x .WinVersion}}" MaxVersionTested="{{x .WinVersion}}" />
  </Dependencies>
  <Capabilities>
    <rescap:Capability Name="runFullTrust"/>
  </Capabilities>
  <Applications>
    <Application Id="{{x .Game}}" Executable="{{x .Executable}}"
      uap10:RuntimeBehavior="packagedClassicApp"
      uap10:TrustLevel="mediumIL">
      <uap:VisualElements DisplayName="{{x .DisplayName}}" Description="{{x .Description}}"	Square150x150Logo="{{x .Logo150}}"
        Square44x44Logo="{{x .Logo44}}" BackgroundColor="` + BackgroundColor + `" />
    </Application>
  </Applications>
</Package>
`))

// RenderManifest renders the AppX manifest. Substituted values are XML
// escaped.
func RenderManifest(data ManifestData) (string, error) {
	var buf bytes.Buffer
	if err := manifestTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func escapeXML(s string) string {
	var b strings.Builder
	// EscapeText only fails on writer errors.
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
