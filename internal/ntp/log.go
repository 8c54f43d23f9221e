package ntp

import (
	"go.uber.org/zap/zapcore"
)

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (t Timestamp) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint32("seconds", t.Seconds())
	enc.AddUint32("fraction", t.Fraction())
	return nil
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (p *Packet) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint8("leap", uint8(p.Leap))
	enc.AddUint8("version", p.Version)
	enc.AddUint8("mode", uint8(p.Mode))
	enc.AddUint8("stratum", p.Stratum)
	enc.AddUint8("poll", p.Poll)
	enc.AddInt8("precision", p.Precision)
	enc.AddInt32("root_delay", p.RootDelay)
	enc.AddUint32("root_dispersion", p.RootDispersion)
	enc.AddBinary("reference_id", p.ReferenceID[:])
	if err := enc.AddObject("reference_time", p.ReferenceTime); err != nil {
		return err
	}
	if err := enc.AddObject("origin_time", p.OriginTime); err != nil {
		return err
	}
	if err := enc.AddObject("receive_time", p.ReceiveTime); err != nil {
		return err
	}
	return enc.AddObject("transmit_time", p.TransmitTime)
}
