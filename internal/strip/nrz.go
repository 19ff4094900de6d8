package strip

import (
	"fmt"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/host/v3"
)

// nrz drives a WS281x strip by NRZ-encoding the pixel stream on an SPI bus.
type nrz struct {
	*Buffer
	port       spi.PortCloser
	dev        *nrzled.Dev
	brightness uint8
	raw        []byte
}

func newNRZ(cfg Config) (*nrz, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("strip %q: failed to initialize periph host: %w", cfg.Name, err)
	}

	port, err := spireg.Open(cfg.Device)
	if err != nil {
		return nil, fmt.Errorf("strip %q: failed to open SPI port %q: %w", cfg.Name, cfg.Device, err)
	}

	opts := nrzled.DefaultOpts
	opts.NumPixels = cfg.Count
	opts.Channels = 3
	if cfg.FreqKHz > 0 {
		opts.Freq = physic.Frequency(cfg.FreqKHz) * physic.KiloHertz
	}

	dev, err := nrzled.NewSPI(port, &opts)
	if err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("strip %q: failed to create nrzled device: %w", cfg.Name, err)
	}

	brightness := cfg.Brightness
	if brightness < 0 || brightness > 255 {
		brightness = 255
	}

	return &nrz{
		Buffer:     NewBuffer(cfg.Name, cfg.Count),
		port:       port,
		dev:        dev,
		brightness: uint8(brightness),
		raw:        make([]byte, cfg.Count*3),
	}, nil
}

// Show encodes the buffer with global brightness applied and writes it out.
func (s *nrz) Show() error {
	for i, p := range s.Pixels() {
		p = p.dim(s.brightness)
		s.raw[i*3] = p.R
		s.raw[i*3+1] = p.G
		s.raw[i*3+2] = p.B
	}
	if _, err := s.dev.Write(s.raw); err != nil {
		return fmt.Errorf("nrzled write: %w", err)
	}
	return nil
}

// Close halts the strip and releases the SPI port.
func (s *nrz) Close() error {
	haltErr := s.dev.Halt()
	if err := s.port.Close(); err != nil {
		return err
	}
	return haltErr
}
