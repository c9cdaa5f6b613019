package shell

// KubeconfigSection names the managed rc-file block carrying the
// kubeconfig merge helper.
const KubeconfigSection = "kubeconfig helper"

// KubeconfigHelper is the shell function injected into the user's rc
// file. It looks a managed cluster up by name, fetches its credentials,
// and merges them into ~/.kube/config without clobbering existing
// contexts. The merged config is kept private (0600) and the per-cluster
// temp file is removed afterwards. Switching to the new context is best
// effort only.
const KubeconfigHelper = `kmerge() {
    if [ "$#" -ne 1 ]; then
        echo "usage: kmerge <cluster-name>" >&2
        return 64
    fi

    _km_name="$1"
    _km_id="$(doctl kubernetes cluster list --format ID,Name --no-header | awk -v n="$_km_name" '$2 == n { print $1 }')"
    if [ -z "$_km_id" ]; then
        echo "kmerge: no cluster named \"$_km_name\"" >&2
        return 2
    fi

    mkdir -p "$HOME/.kube"
    _km_tmp="$HOME/.kube/config-$_km_id"
    if ! doctl kubernetes cluster kubeconfig show "$_km_id" > "$_km_tmp"; then
        rm -f "$_km_tmp"
        return 1
    fi

    _km_ctx="$(KUBECONFIG="$_km_tmp" kubectl config current-context 2>/dev/null)"
    if ! KUBECONFIG="$HOME/.kube/config:$_km_tmp" kubectl config view --flatten > "$HOME/.kube/config.merged"; then
        rm -f "$_km_tmp" "$HOME/.kube/config.merged"
        return 1
    fi
    mv "$HOME/.kube/config.merged" "$HOME/.kube/config"
    chmod 600 "$HOME/.kube/config"
    rm -f "$_km_tmp"

    if [ -n "$_km_ctx" ]; then
        kubectl config use-context "$_km_ctx" >/dev/null 2>&1 || true
    fi
}`
