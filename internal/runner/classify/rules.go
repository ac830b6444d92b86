package classify

import (
	"slices"
	"strconv"
	"strings"

	"github.com/Naveenkumar-Dev-21/CyberHelix/internal/runner/runnertypes"
)

// Rule is one entry of the classification table: a program set, an optional
// argument predicate, and the classification it yields. The table is domain
// data, not control flow; new tool signatures are additions here.
type Rule struct {
	// Name is the signature identifier recorded in audit logs
	Name string

	// Programs are the base program names this rule applies to
	Programs []string

	// FlagsAny matches when any argument token equals one of these flags.
	// Empty means the program alone matches.
	FlagsAny []string

	// MatchArgs is an optional predicate for flag shapes that FlagsAny
	// cannot express (e.g. privileged port detection). When set it takes
	// precedence over FlagsAny.
	MatchArgs func(args []string) bool

	Level                runnertypes.PrivilegeLevel
	SafeForAutomation    bool
	RequiresConfirmation bool
	Justification        string
}

func (r Rule) matches(program string, args []string) bool {
	if !slices.Contains(r.Programs, program) {
		return false
	}
	if r.MatchArgs != nil {
		return r.MatchArgs(args)
	}
	if len(r.FlagsAny) == 0 {
		return true
	}
	for _, arg := range args {
		if slices.Contains(r.FlagsAny, arg) {
			return true
		}
	}
	return false
}

// DangerousPattern is a deny-list entry for destructive or
// interface-altering argument shapes. A match never blocks execution by
// itself; it forces operator confirmation.
type DangerousPattern struct {
	// Name identifies the pattern in the audit signature
	Name string

	// Substrings are matched case-insensitively against each argument token
	Substrings []string

	Justification string
}

func (p DangerousPattern) matches(args []string) bool {
	for _, arg := range args {
		lower := strings.ToLower(arg)
		for _, sub := range p.Substrings {
			if strings.Contains(lower, sub) {
				return true
			}
		}
	}
	return false
}

// defaultRules is the built-in classification table. Order matters: the
// first matching rule wins, so narrower flag shapes come before broader
// ones for the same program.
var defaultRules = []Rule{
	{
		Name:              "nmap/raw-scan",
		Programs:          []string{"nmap"},
		FlagsAny:          []string{"-sS", "-sU", "-sY", "-sA", "-sN", "-sF", "-sX", "-O", "-A"},
		Level:             runnertypes.PrivilegeSudo,
		SafeForAutomation: true,
		Justification:     "raw socket access required for SYN/UDP/OS-detection scans",
	},
	{
		Name:              "nmap/connect-scan",
		Programs:          []string{"nmap"},
		FlagsAny:          []string{"-sT", "-sn", "-sL"},
		Level:             runnertypes.PrivilegeUser,
		SafeForAutomation: true,
		Justification:     "TCP connect scan uses unprivileged sockets",
	},
	{
		Name:              "capture/packet-capture",
		Programs:          []string{"tcpdump", "tshark", "dumpcap", "wireshark"},
		Level:             runnertypes.PrivilegeSudo,
		SafeForAutomation: true,
		Justification:     "raw packet capture requires capture privileges on the interface",
	},
	{
		Name:              "scan/masscan",
		Programs:          []string{"masscan"},
		Level:             runnertypes.PrivilegeSudo,
		SafeForAutomation: true,
		Justification:     "asynchronous raw-socket transmission requires elevation",
	},
	{
		Name:              "scan/packet-craft",
		Programs:          []string{"hping3", "arp-scan"},
		Level:             runnertypes.PrivilegeSudo,
		SafeForAutomation: true,
		Justification:     "crafted raw packets require elevation",
	},
	{
		Name:                 "wireless/monitor-mode",
		Programs:             []string{"airmon-ng", "airodump-ng"},
		Level:                runnertypes.PrivilegeSudo,
		SafeForAutomation:    false,
		RequiresConfirmation: true,
		Justification:        "wireless monitor-mode toggle alters interface state",
	},
	{
		Name:                 "wireless/deauth",
		Programs:             []string{"aireplay-ng"},
		FlagsAny:             []string{"--deauth", "-0"},
		Level:                runnertypes.PrivilegeSudo,
		SafeForAutomation:    false,
		RequiresConfirmation: true,
		Justification:        "deauthentication frame injection disrupts connected clients",
	},
	{
		Name:                 "wireless/frame-injection",
		Programs:             []string{"aireplay-ng", "airbase-ng"},
		Level:                runnertypes.PrivilegeSudo,
		SafeForAutomation:    false,
		RequiresConfirmation: true,
		Justification:        "wireless frame injection alters radio traffic",
	},
	{
		Name:                 "net/mac-change",
		Programs:             []string{"macchanger"},
		Level:                runnertypes.PrivilegeSudo,
		SafeForAutomation:    false,
		RequiresConfirmation: true,
		Justification:        "MAC address modification changes interface identity",
	},
	{
		Name:                 "net/interface-config",
		Programs:             []string{"ip", "ifconfig", "iwconfig"},
		MatchArgs:            hasInterfaceMutation,
		Level:                runnertypes.PrivilegeSystem,
		SafeForAutomation:    false,
		RequiresConfirmation: true,
		Justification:        "interface reconfiguration requires system-level capability",
	},
	{
		Name:              "net/privileged-bind",
		Programs:          []string{"nc", "ncat", "netcat"},
		MatchArgs:         bindsPrivilegedPort,
		Level:             runnertypes.PrivilegeSudo,
		SafeForAutomation: true,
		Justification:     "binding a port below 1024 requires elevation",
	},
	{
		Name:              "net/icmp-probe",
		Programs:          []string{"ping", "traceroute", "arping"},
		Level:             runnertypes.PrivilegeNetwork,
		SafeForAutomation: true,
		Justification:     "ICMP probes need raw-socket capability on most hosts",
	},
	{
		Name:              "web/http-scan",
		Programs:          []string{"nuclei", "sqlmap", "nikto", "gobuster", "ffuf", "dirb", "wpscan", "whatweb", "httpx", "curl", "wget"},
		Level:             runnertypes.PrivilegeUser,
		SafeForAutomation: true,
		Justification:     "HTTP-based scan runs over unprivileged sockets",
	},
}

// dangerousPatterns forces confirmation for argument shapes associated
// with destructive or interface-altering operations, whatever program
// carries them.
var dangerousPatterns = []DangerousPattern{
	{
		Name:          "deauth",
		Substrings:    []string{"--deauth", "--disassociate"},
		Justification: "deauthentication or disassociation flags detected",
	},
	{
		Name:          "mac-spoof",
		Substrings:    []string{"--spoof-mac", "--random-mac"},
		Justification: "MAC spoofing flags detected",
	},
	{
		Name:          "raw-device-write",
		Substrings:    []string{"of=/dev/"},
		Justification: "raw write to a device node detected",
	},
	{
		Name:          "flood",
		Substrings:    []string{"--flood"},
		Justification: "traffic flooding flag detected",
	},
}

// rawSocketPrograms is the allow-list backing the fallback heuristic:
// programs known to need raw sockets or privileged ports default to sudo
// when no table entry matched.
var rawSocketPrograms = map[string]string{
	"nmap":      "nmap defaults to raw-socket scans when no scan type is given",
	"masscan":   "masscan transmits over raw sockets",
	"tcpdump":   "packet capture requires capture privileges",
	"tshark":    "packet capture requires capture privileges",
	"dumpcap":   "packet capture requires capture privileges",
	"wireshark": "packet capture requires capture privileges",
	"hping3":    "crafted raw packets require elevation",
	"arp-scan":  "ARP probes require raw-socket access",
	"ettercap":  "traffic interception requires raw-socket access",
	"bettercap": "traffic interception requires raw-socket access",
}

// interfaceMutationTokens are ip/ifconfig subwords that change state rather
// than report it.
var interfaceMutationTokens = []string{"set", "add", "del", "flush", "up", "down", "promisc"}

func hasInterfaceMutation(args []string) bool {
	for _, arg := range args {
		if slices.Contains(interfaceMutationTokens, arg) {
			return true
		}
	}
	return false
}

// bindsPrivilegedPort reports whether a listen flag is present together
// with a numeric port below 1024.
func bindsPrivilegedPort(args []string) bool {
	listening := false
	lowPort := false
	for _, arg := range args {
		// -l alone, --listen, or a short-option cluster containing l (-lvnp)
		if arg == "--listen" || (strings.HasPrefix(arg, "-") && !strings.HasPrefix(arg, "--") && strings.ContainsRune(arg, 'l')) {
			listening = true
		}
		if port, err := strconv.Atoi(strings.TrimPrefix(arg, "-p")); err == nil && port > 0 && port < 1024 {
			lowPort = true
		}
	}
	return listening && lowPort
}
