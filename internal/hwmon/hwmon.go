package hwmon

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/fan-control/fan-control/internal/configuration"
	"github.com/md14454/gosensors"
)

const (
	BusTypeIsa  = 1
	BusTypePci  = 2
	BusTypeAcpi = 5
)

var (
	platformRegex  = regexp.MustCompile(`/platform/([^/]+)/`)
	pwmOutputRegex = regexp.MustCompile(`^pwm(\d+)$`)
)

// TempInput is a tempN_input file of a hwmon device
type TempInput struct {
	Index int    `json:"index"`
	Label string `json:"label"`
	Path  string `json:"path"`
	// Max and Min in °C, -1 if the device does not report them
	Max int `json:"max"`
	Min int `json:"min"`
	// Value in °C at the time of detection
	Value float64 `json:"value"`
}

// PwmOutput is a pwmN file of a hwmon device
type PwmOutput struct {
	Index   int    `json:"index"`
	Channel int    `json:"channel"`
	Path    string `json:"path"`
}

type HwMonController struct {
	Name     string `json:"name"`
	Platform string `json:"platform"`
	Path     string `json:"path"`

	TempInputs []TempInput `json:"tempInputs"`
	PwmOutputs []PwmOutput `json:"pwmOutputs"`
}

// GetChips returns all hwmon devices known to lm-sensors that provide
// at least one temperature input or pwm output
func GetChips() []*HwMonController {
	gosensors.Init()
	defer gosensors.Cleanup()
	chips := gosensors.GetDetectedChips()

	var list []*HwMonController
	for _, chip := range chips {
		identifier := computeIdentifier(chip)
		platform := findPlatform(chip.Path)
		if len(platform) <= 0 {
			platform = identifier
		}

		tempInputs := getTempInputs(chip)
		pwmOutputs := findPwmOutputs(chip.Path)
		if len(tempInputs) <= 0 && len(pwmOutputs) <= 0 {
			continue
		}

		list = append(list, &HwMonController{
			Name:       identifier,
			Platform:   platform,
			Path:       chip.Path,
			TempInputs: tempInputs,
			PwmOutputs: pwmOutputs,
		})
	}

	return list
}

func getTempInputs(chip gosensors.Chip) []TempInput {
	var result []TempInput

	for _, feature := range chip.GetFeatures() {
		if feature.Type != gosensors.FeatureTypeTemp {
			continue
		}

		subfeatures := feature.GetSubFeatures()
		input, ok := findSubFeature(subfeatures, gosensors.SubFeatureTypeTempInput)
		if !ok {
			continue
		}

		max := -1
		if maxSubFeature, ok := findSubFeature(subfeatures, gosensors.SubFeatureTypeTempMax); ok {
			max = int(maxSubFeature.GetValue())
		}

		min := -1
		if minSubFeature, ok := findSubFeature(subfeatures, gosensors.SubFeatureTypeTempMin); ok {
			min = int(minSubFeature.GetValue())
		}

		result = append(result, TempInput{
			Index: len(result) + 1,
			Label: readLabel(chip.Path, input.Name),
			Path:  filepath.Join(chip.Path, input.Name),
			Max:   max,
			Min:   min,
			Value: input.GetValue(),
		})
	}

	return result
}

// findPwmOutputs lists the pwmN files of a device, ordered by channel.
// libsensors does not report pwm outputs, so the directory is scanned.
func findPwmOutputs(devicePath string) []PwmOutput {
	matches, err := filepath.Glob(filepath.Join(devicePath, "pwm*"))
	if err != nil {
		return nil
	}

	var channels []int
	for _, match := range matches {
		submatch := pwmOutputRegex.FindStringSubmatch(filepath.Base(match))
		if submatch == nil {
			continue
		}
		channel, err := strconv.Atoi(submatch[1])
		if err != nil {
			continue
		}
		channels = append(channels, channel)
	}
	sort.Ints(channels)

	var result []PwmOutput
	for i, channel := range channels {
		result = append(result, PwmOutput{
			Index:   i + 1,
			Channel: channel,
			Path:    filepath.Join(devicePath, fmt.Sprintf("pwm%d", channel)),
		})
	}
	return result
}

func findSubFeature(subfeatures []gosensors.SubFeature, subFeatureType gosensors.SubFeatureType) (gosensors.SubFeature, bool) {
	for _, subfeature := range subfeatures {
		if subfeature.Type == subFeatureType {
			return subfeature, true
		}
	}
	return gosensors.SubFeature{}, false
}

// computeIdentifier builds a name in the style of the `sensors` command, e.g. nct6798-isa-0290
func computeIdentifier(chip gosensors.Chip) (name string) {
	name = chip.Prefix

	devicePath := chip.Path
	if len(name) <= 0 {
		name = readAttribute(devicePath, "name")
	}

	if len(name) <= 0 {
		_, name = filepath.Split(devicePath)
	}

	identifier := name
	switch chip.Bus.Type {
	case BusTypeIsa:
		identifier = fmt.Sprintf("%s-isa-%04x", identifier, int(chip.Bus.Nr)<<12+int(chip.Addr))
	case BusTypePci:
		identifier = fmt.Sprintf("%s-pci-%04x", identifier, int(chip.Bus.Nr)<<12+int(chip.Addr))
	case BusTypeAcpi:
		identifier = fmt.Sprintf("%s-acpi-%d", identifier, chip.Bus.Nr)
	}

	return identifier
}

// findPlatform returns the platform device name of a sysfs path,
// e.g. "pwm-fan" for /sys/devices/platform/pwm-fan/hwmon/hwmon1
func findPlatform(devicePath string) string {
	submatch := platformRegex.FindStringSubmatch(devicePath)
	if submatch == nil {
		return ""
	}
	return submatch[1]
}

func matchesPlatform(controller *HwMonController, platform string) (bool, error) {
	if len(platform) <= 0 {
		return true, nil
	}
	if strings.EqualFold(controller.Platform, platform) || strings.EqualFold(controller.Name, platform) {
		return true, nil
	}
	return regexp.MatchString(platform, controller.Platform)
}

// UpdateSensorConfigFromHwMonControllers resolves the tempInput path of a
// hwmon sensor config from its platform and index
func UpdateSensorConfigFromHwMonControllers(controllers []*HwMonController, config *configuration.SensorConfig) error {
	hwmonConfig := config.HwMon
	if hwmonConfig == nil || len(hwmonConfig.TempInput) > 0 {
		return nil
	}

	for _, controller := range controllers {
		matched, err := matchesPlatform(controller, hwmonConfig.Platform)
		if err != nil {
			return fmt.Errorf("sensor %s: invalid platform pattern: %w", config.ID, err)
		}
		if !matched {
			continue
		}
		for _, input := range controller.TempInputs {
			if input.Index == hwmonConfig.Index {
				hwmonConfig.TempInput = input.Path
				return nil
			}
		}
	}

	return fmt.Errorf("no hwmon sensor matched sensor config: %s", config.ID)
}

// UpdateFanConfigFromHwMonControllers resolves the pwmOutput path of a
// hwmon fan config from its platform and index
func UpdateFanConfigFromHwMonControllers(controllers []*HwMonController, config *configuration.FanConfig) error {
	hwmonConfig := config.HwMon
	if hwmonConfig == nil || len(hwmonConfig.PwmOutput) > 0 {
		return nil
	}

	for _, controller := range controllers {
		matched, err := matchesPlatform(controller, hwmonConfig.Platform)
		if err != nil {
			return fmt.Errorf("fan %s: invalid platform pattern: %w", config.ID, err)
		}
		if !matched {
			continue
		}
		for _, output := range controller.PwmOutputs {
			if output.Index == hwmonConfig.Index {
				hwmonConfig.PwmOutput = output.Path
				return nil
			}
		}
	}

	return fmt.Errorf("no hwmon fan matched fan config: %s", config.ID)
}

// readAttribute returns the trimmed content of a sysfs attribute of a device,
// or an empty string if it can not be read
func readAttribute(devicePath string, attribute string) string {
	content, err := os.ReadFile(filepath.Join(devicePath, attribute))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(content))
}

// readLabel returns the content of tempN_label for the input tempN_input,
// falling back to the input name without its suffix
func readLabel(devicePath string, input string) string {
	name := strings.TrimSuffix(input, "_input")
	label := readAttribute(devicePath, name+"_label")
	if len(label) <= 0 {
		return name
	}
	return label
}
