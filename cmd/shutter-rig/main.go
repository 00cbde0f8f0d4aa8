// Command shutter-rig cycle-tests a solenoid shutter: slow toggle, fast
// stress burst, rest, repeat — validating the commanded position against a
// beam-break sensor and halting permanently on the first mismatch.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sweeney/shutter-rig/internal/analog"
	"github.com/sweeney/shutter-rig/internal/gpio"
	"github.com/sweeney/shutter-rig/internal/mqtt"
	"github.com/sweeney/shutter-rig/internal/rig"
	"github.com/sweeney/shutter-rig/internal/status"
	"github.com/sweeney/shutter-rig/internal/web"
)

// tickInterval is the cooperative scheduler tick. It must stay well under
// the fast toggle period so burst deadlines are hit on time.
const tickInterval = 2 * time.Millisecond

func main() {
	broker := flag.String("broker", "tcp://192.168.1.200:1883", "MQTT broker address")
	httpAddr := flag.String("http", ":80", "HTTP status address (empty to disable)")
	pinBeam := flag.Int("pin-beam", gpio.DefaultPinBeam, "BCM pin number for the beam-break input")
	pinSolenoid := flag.Int("pin-solenoid", gpio.DefaultPinSolenoid, "BCM pin number for the solenoid driver")
	spiDev := flag.String("spi", analog.DefaultSPIDev, "SPI device for the MCP3008 ADC")
	printState := flag.Bool("print-state", false, "Print sensed shutter state and exit")

	flag.Parse()

	if err := run(*broker, *httpAddr, *pinBeam, *pinSolenoid, *spiDev, *printState); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(broker, httpAddr string, pinBeam, pinSolenoid int, spiDev string, printState bool) error {
	// Initialize GPIO
	port, err := gpio.NewRealPort(pinBeam, pinSolenoid)
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer port.Close()

	// Print state mode
	if printState {
		open, err := port.ShutterOpen()
		if err != nil {
			return fmt.Errorf("read beam: %w", err)
		}
		fmt.Printf("shutter: %s\n", positionString(open))
		return nil
	}

	// Initialize the ADC
	source, err := analog.NewRealSource(spiDev)
	if err != nil {
		return fmt.Errorf("init adc: %w", err)
	}
	defer source.Close()

	// Initialize MQTT
	publisher, err := mqtt.NewRealPublisher(broker)
	if err != nil {
		return fmt.Errorf("init mqtt: %w", err)
	}
	defer publisher.Close()

	cfg := rig.DefaultConfig()

	// Initialize status tracker (before STARTUP so snapshot is available)
	tracker := status.NewTracker(time.Now(), status.Config{
		TickMs:      tickInterval.Milliseconds(),
		SlowMs:      cfg.SlowToggle.Milliseconds(),
		FastMs:      cfg.FastToggle.Milliseconds(),
		SettleMs:    cfg.Settle.Milliseconds(),
		BurstLength: cfg.BurstLength,
		ValidateMs:  cfg.ValidatePoll.Milliseconds(),
		SampleMs:    cfg.SamplePoll.Milliseconds(),
		Broker:      broker,
		HTTPPort:    httpAddr,
	})

	// Publish startup event with full status snapshot
	snap := tracker.Snapshot()
	startupEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startupEvent); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	} else {
		log.Printf("published startup event")
	}

	// Start HTTP status server
	if httpAddr != "" {
		srv := web.New(httpAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", httpAddr)
	}

	log.Printf("started: slow=%v fast=%v settle=%v burst=%d validate=%v sample=%v broker=%s",
		cfg.SlowToggle, cfg.FastToggle, cfg.Settle, cfg.BurstLength, cfg.ValidatePoll, cfg.SamplePoll, broker)

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(port, source, publisher, publisher, tracker, cfg, time.Now, ticker.C, sigCh)
}

// runLoop drives the rig one tick at a time until a signal arrives. After a
// validation fault the loop keeps running but ignores ticks: the rig is
// terminal, the last log line and the retained FAULT event mark the failure
// point, and the status page stays up for the operator.
func runLoop(port gpio.Port, source analog.Source, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, cfg rig.Config, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	startTime := now()
	r := rig.New(startTime, cfg)

	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			if r.Halted() {
				// Keep the retained FAULT event as the topic's last
				// word; a retained SHUTDOWN would mask it.
				log.Printf("exiting after fault: %s", r.Fault())
				return nil
			}
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			event := mqtt.SystemEvent{
				Timestamp: now(),
				Event:     "SHUTDOWN",
				Reason:    signalName,
				Retained:  true,
			}
			if tracker != nil {
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
				snap := tracker.Snapshot()
				event.RawPayload = status.FormatStatusEvent(snap, "SHUTDOWN", signalName)
			}
			if err := publisher.PublishSystem(event); err != nil {
				log.Printf("failed to publish shutdown event: %v", err)
			} else {
				log.Printf("published shutdown event")
			}
			return nil

		case <-tick:
			if r.Halted() {
				continue
			}
			t := now()

			sensedOpen, err := port.ShutterOpen()
			if err != nil {
				log.Printf("beam read error: %v", err)
				continue
			}
			tempRaw, err := source.ReadTemperatureRaw()
			if err != nil {
				log.Printf("temperature read error: %v", err)
				continue
			}
			currentRaw, err := source.ReadCurrentRaw()
			if err != nil {
				log.Printf("current read error: %v", err)
				continue
			}

			out := r.Tick(rig.Input{
				Time:        t,
				ShutterOpen: sensedOpen,
				Temperature: analog.Temperature(tempRaw),
				Current:     analog.Current(currentRaw),
			})

			if out.Solenoid != nil {
				if err := port.SetSolenoid(*out.Solenoid); err != nil {
					// Don't crash: a dead driver shows up as a
					// validation mismatch on the next poll.
					log.Printf("solenoid error: %v", err)
				}
			}

			if out.Record != nil {
				rec := *out.Record
				log.Printf("sample: t=%v temp=%.1fC current=%.2fA successes=%d stage=%s",
					rec.Elapsed.Truncate(time.Millisecond), rec.Temperature, rec.Current, rec.Successes, rec.Stage)
				if tracker != nil {
					tracker.SetSample(rec)
				}
				if err := publisher.PublishSample(rec); err != nil {
					log.Printf("publish error: %v", err)
					// Don't crash on publish failure
				}
			}

			// Update status tracker for HTTP consumers
			if tracker != nil {
				tracker.Update(r.Stage(), r.Commanded(), r.SettlePending(), r.Successes(), r.FastCount())
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
			}

			if out.Fault != nil {
				log.Printf("FATAL: %s", out.Fault)
				faultEvent := mqtt.SystemEvent{
					Timestamp: t,
					Event:     "FAULT",
					Reason:    out.Fault.String(),
					Retained:  true,
				}
				if tracker != nil {
					tracker.SetFault(*out.Fault)
					snap := tracker.Snapshot()
					faultEvent.RawPayload = status.FormatStatusEvent(snap, "FAULT", out.Fault.String())
				}
				if err := publisher.PublishSystem(faultEvent); err != nil {
					log.Printf("failed to publish fault event: %v", err)
				}
				log.Printf("rig halted; inspect the shutter, then send SIGINT/SIGTERM to exit")
			}
		}
	}
}

func positionString(open bool) string {
	if open {
		return "OPEN"
	}
	return "CLOSED"
}
