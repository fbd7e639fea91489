package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/amken3d/stepsched/actuate"
	"github.com/amken3d/stepsched/host/scheduler"
	"github.com/amken3d/stepsched/standalone"
	stdconfig "github.com/amken3d/stepsched/standalone/config"
)

var (
	verbose       = flag.Bool("verbose", false, "Enable verbose output")
	configPath    = flag.String("config", "", "Path to a machine topology config (JSON or YAML); defaults to a built-in Cartesian config")
	bufferSize    = flag.Int("buffer-size", scheduler.DefaultBufferSize, "Scheduler backpressure buffer size")
	rtPriority    = flag.Int("rt-priority", scheduler.DefaultRTPriority, "SCHED_FIFO priority requested for the consumer thread")
	demoProducers = flag.Bool("demo-producers", true, "Run the motion and temperature producer stubs alongside the REPL")
)

// stepPeriod and stepPulseWidth stand in for a real motion planner's output:
// one Rise/Fall pulse pair per period on the first configured axis channel.
const (
	stepPeriod     = 1 * time.Millisecond
	stepPulseWidth = 2 * time.Microsecond
)

// heaterPeriod is the PWM period the temperature producer stub drives on
// the first configured heater channel, its duty cycle drifting the way a
// PID loop's output would as the simulated temperature wanders.
const heaterPeriod = 250 * time.Millisecond

func main() {
	flag.Parse()
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	fmt.Println("stepsched - real-time event scheduler host")
	fmt.Println("===========================================")
	fmt.Println()

	machineCfg, err := loadMachineConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load machine config: %v\n", err)
		os.Exit(1)
	}
	channels := machineCfg.ChannelMap()
	if *verbose {
		for name, id := range channels {
			fmt.Printf("  channel %d -> %s\n", id, name)
		}
	}

	sched := scheduler.New(*bufferSize)
	scheduler.InstallSignalHandlers()

	var actuator actuate.Actuator = actuate.NullActuator{}
	if *verbose {
		actuator = actuate.NewLogActuator(log.Default(), actuator)
	}

	scheduler.RegisterExitHandler(func() {
		sched.EmergencyStop()
	}, 0)
	defer scheduler.InvokeShutdown()

	go runConsumer(sched, actuator, *rtPriority)

	if *demoProducers {
		startDemoProducers(sched, channels)
	}

	fmt.Println("Enter commands (type 'help' for available commands, 'quit' to exit):")
	runREPL(sched, channels)
}

// startDemoProducers picks the first configured axis and heater channel, if
// any, and drives each with a producer stub standing in for a real motion
// planner and PID temperature loop (spec.md §1 names both as external
// collaborators the scheduler is fed by, not something this repository
// implements).
func startDemoProducers(sched *scheduler.Scheduler, channels map[string]uint8) {
	if axis, name, ok := pickChannel(channels, "axis:"); ok {
		if *verbose {
			fmt.Printf("motion producer stub driving %s (channel %d)\n", name, axis)
		}
		go runMotionProducer(sched, axis)
	}
	if heater, name, ok := pickChannel(channels, "heater:"); ok {
		if *verbose {
			fmt.Printf("temperature producer stub driving %s (channel %d)\n", name, heater)
		}
		go runTemperatureProducer(sched, heater)
	}
}

// pickChannel returns the lowest-numbered channel whose ChannelMap name
// carries the given prefix, so demo output is stable across runs of the
// same config.
func pickChannel(channels map[string]uint8, prefix string) (scheduler.ChannelId, string, bool) {
	var names []string
	for name := range channels {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return 0, "", false
	}
	sort.Strings(names)
	return channels[names[0]], names[0], true
}

// runMotionProducer chains one step pulse after another off the scheduler's
// current tail, the way a real motion planner would append segments after
// whatever is already queued rather than racing the clock from now().
func runMotionProducer(sched *scheduler.Scheduler, axis scheduler.ChannelId) {
	for {
		tail := sched.LastScheduledTime()
		rise := tail.Add(stepPeriod.Nanoseconds())
		fall := rise.Add(stepPulseWidth.Nanoseconds())
		sched.Queue(scheduler.NewEvent(rise, axis, scheduler.Rise))
		sched.Queue(scheduler.NewEvent(fall, axis, scheduler.Fall))
		time.Sleep(stepPeriod)
	}
}

// runTemperatureProducer periodically reasserts a heater channel's duty
// cycle, drifting it the way a PID loop's output drifts as the simulated
// temperature wanders, exercising SchedulePwm continuously.
func runTemperatureProducer(sched *scheduler.Scheduler, heater scheduler.ChannelId) {
	duty := 0.25
	for {
		high := time.Duration(float64(heaterPeriod) * duty)
		low := heaterPeriod - high
		sched.SchedulePwm(heater, uint64(high.Nanoseconds()), uint64(low.Nanoseconds()))
		time.Sleep(heaterPeriod)

		duty += 0.05
		if duty > 0.75 {
			duty = 0.25
		}
	}
}

// runConsumer is the scheduler's single consumer goroutine: it elevates its
// OS thread to real-time priority, then loops popping and actuating events
// until the process exits.
func runConsumer(sched *scheduler.Scheduler, actuator actuate.Actuator, priority int) {
	runtime.LockOSThread()
	sched.InitConsumerThread(priority)

	for {
		evt := sched.NextEvent()
		if err := actuator.Actuate(evt); err != nil {
			log.Printf("actuation error: %v", err)
		}
	}
}

func loadMachineConfig(path string) (*standalone.MachineConfig, error) {
	if path == "" {
		return stdconfig.DefaultCartesianConfig(), nil
	}
	return stdconfig.Load(path)
}

func runREPL(sched *scheduler.Scheduler, channels map[string]uint8) {
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		parts := strings.Fields(line)
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "quit", "exit", "q":
			fmt.Println("Goodbye!")
			return

		case "help", "?":
			printHelp()

		case "channels":
			for name, id := range channels {
				fmt.Printf("  %3d  %s\n", id, name)
			}

		case "pwm":
			if err := cmdPwm(sched, args); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}

		case "stop":
			if err := cmdStop(sched, args); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}

		case "estop":
			sched.EmergencyStop()
			fmt.Println("All channels silenced.")

		case "status":
			fmt.Printf("queued events: %d, buffer size: %d\n", sched.Len(), sched.BufferSize())

		default:
			fmt.Printf("Unknown command: %s (type 'help' for available commands)\n", cmd)
		}
	}

	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println()
	fmt.Println("Available commands:")
	fmt.Println("  help                       - Show this help message")
	fmt.Println("  channels                   - List configured channel ids")
	fmt.Println("  pwm <channel> <high_ns> <low_ns> - Start or update a PWM channel")
	fmt.Println("  stop <channel>             - Stop a PWM channel (schedule_pwm 0 0)")
	fmt.Println("  estop                      - Silence every channel immediately")
	fmt.Println("  status                     - Show queue depth and buffer size")
	fmt.Println("  quit/exit/q                - Exit the program")
	fmt.Println()
}

func cmdPwm(sched *scheduler.Scheduler, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: pwm <channel> <high_ns> <low_ns>")
	}
	channel, highNs, lowNs, err := parsePwmArgs(args)
	if err != nil {
		return err
	}
	sched.SchedulePwm(channel, highNs, lowNs)
	fmt.Printf("channel %d: high=%dns low=%dns\n", channel, highNs, lowNs)
	return nil
}

func cmdStop(sched *scheduler.Scheduler, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: stop <channel>")
	}
	id, err := strconv.ParseUint(args[0], 10, 8)
	if err != nil {
		return fmt.Errorf("invalid channel: %w", err)
	}
	sched.SchedulePwm(uint8(id), 0, 0)
	fmt.Printf("channel %d: stopping\n", id)
	return nil
}

func parsePwmArgs(args []string) (channel uint8, highNs, lowNs uint64, err error) {
	id, err := strconv.ParseUint(args[0], 10, 8)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid channel: %w", err)
	}
	highNs, err = strconv.ParseUint(args[1], 10, 64)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid high_ns: %w", err)
	}
	lowNs, err = strconv.ParseUint(args[2], 10, 64)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid low_ns: %w", err)
	}
	return uint8(id), highNs, lowNs, nil
}
